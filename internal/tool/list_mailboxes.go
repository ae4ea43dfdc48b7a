package tool

import (
	"context"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lucastalder/apple-mail-mcp/internal/mail"
)

// ListMailboxesRequest selects the account to list.
type ListMailboxesRequest struct {
	AccountName   string `json:"account_name" jsonschema:"account name as shown in Mail.app"`
	IncludeNested *bool  `json:"include_nested,omitempty" jsonschema:"recurse into nested mailboxes (default true)"`
}

// ListMailboxesResponse lists mailboxes, or carries the bridge error.
type ListMailboxesResponse struct {
	Mailboxes []Mailbox `json:"mailboxes" jsonschema:"array of mailboxes with snapshot counts"`
	Error     string    `json:"error,omitempty" jsonschema:"set when the listing failed"`
}

type listMailboxesSvc interface {
	ListMailboxes(ctx context.Context, accountName string, includeNested bool) ([]mail.Mailbox, error)
}

// NewListMailboxes creates the list_mailboxes tool.
func NewListMailboxes(svc listMailboxesSvc) *ListMailboxes {
	return &ListMailboxes{svc: svc}
}

// ListMailboxes lists mailboxes of one account.
type ListMailboxes struct {
	svc listMailboxesSvc
}

func (t *ListMailboxes) ListMailboxes(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListMailboxesRequest,
) (*mcp.CallToolResult, ListMailboxesResponse, error) {
	includeNested := true
	if input.IncludeNested != nil {
		includeNested = *input.IncludeNested
	}

	mailboxes, err := t.svc.ListMailboxes(ctx, input.AccountName, includeNested)
	if err != nil {
		log.Printf("Failed to list mailboxes for %q: %v", input.AccountName, err)
		return nil, ListMailboxesResponse{Error: err.Error()}, nil
	}

	out := make([]Mailbox, 0, len(mailboxes))
	for _, m := range mailboxes {
		out = append(out, mailboxFromMail(m))
	}

	return nil, ListMailboxesResponse{Mailboxes: out}, nil
}
