package tool

import (
	"context"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lucastalder/apple-mail-mcp/internal/mail"
)

// ListAccountsRequest has no parameters.
type ListAccountsRequest struct{}

// ListAccountsResponse lists accounts, or carries the bridge error.
type ListAccountsResponse struct {
	Accounts []Account `json:"accounts" jsonschema:"array of configured accounts"`
	Error    string    `json:"error,omitempty" jsonschema:"set when the listing failed"`
}

type listAccountsSvc interface {
	ListAccounts(ctx context.Context) ([]mail.Account, error)
}

// NewListAccounts creates the list_accounts tool.
func NewListAccounts(svc listAccountsSvc) *ListAccounts {
	return &ListAccounts{svc: svc}
}

// ListAccounts lists configured Mail.app accounts.
type ListAccounts struct {
	svc listAccountsSvc
}

func (t *ListAccounts) ListAccounts(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListAccountsRequest,
) (*mcp.CallToolResult, ListAccountsResponse, error) {
	accounts, err := t.svc.ListAccounts(ctx)
	if err != nil {
		log.Printf("Failed to list accounts: %v", err)
		return nil, ListAccountsResponse{Error: err.Error()}, nil
	}

	out := make([]Account, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, accountFromMail(a))
	}

	return nil, ListAccountsResponse{Accounts: out}, nil
}
