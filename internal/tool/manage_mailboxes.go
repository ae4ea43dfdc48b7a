package tool

import (
	"context"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lucastalder/apple-mail-mcp/internal/mail"
)

// CreateMailboxRequest names the mailbox to create.
type CreateMailboxRequest struct {
	AccountName   string `json:"account_name" jsonschema:"account name as shown in Mail.app"`
	MailboxName   string `json:"mailbox_name" jsonschema:"name for the new mailbox"`
	ParentMailbox string `json:"parent_mailbox,omitempty" jsonschema:"parent mailbox path for nested creation"`
}

// RenameMailboxRequest names the mailbox to rename.
type RenameMailboxRequest struct {
	AccountName string `json:"account_name" jsonschema:"account name as shown in Mail.app"`
	MailboxPath string `json:"mailbox_path" jsonschema:"path of the mailbox to rename"`
	NewName     string `json:"new_name" jsonschema:"new name for the mailbox"`
}

// MailboxOpResponse reports a create or rename outcome.
type MailboxOpResponse struct {
	Success bool   `json:"success" jsonschema:"whether the operation succeeded"`
	Message string `json:"message,omitempty" jsonschema:"human-readable outcome"`
	Error   string `json:"error,omitempty" jsonschema:"failure reason"`
}

type manageMailboxesSvc interface {
	CreateMailbox(ctx context.Context, accountName, mailboxName, parentMailbox string) (*mail.OpResult, error)
	RenameMailbox(ctx context.Context, accountName, mailboxPath, newName string) (*mail.OpResult, error)
}

// NewManageMailboxes creates the create_mailbox/rename_mailbox tools.
func NewManageMailboxes(svc manageMailboxesSvc) *ManageMailboxes {
	return &ManageMailboxes{svc: svc}
}

// ManageMailboxes creates and renames mailboxes.
type ManageMailboxes struct {
	svc manageMailboxesSvc
}

func (t *ManageMailboxes) CreateMailbox(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CreateMailboxRequest,
) (*mcp.CallToolResult, MailboxOpResponse, error) {
	result, err := t.svc.CreateMailbox(ctx, input.AccountName, input.MailboxName, input.ParentMailbox)
	if err != nil {
		log.Printf("Failed to create mailbox %q in %q: %v", input.MailboxName, input.AccountName, err)
		return nil, MailboxOpResponse{Error: err.Error()}, nil
	}

	return nil, MailboxOpResponse{Success: result.Success, Message: result.Message}, nil
}

func (t *ManageMailboxes) RenameMailbox(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RenameMailboxRequest,
) (*mcp.CallToolResult, MailboxOpResponse, error) {
	result, err := t.svc.RenameMailbox(ctx, input.AccountName, input.MailboxPath, input.NewName)
	if err != nil {
		log.Printf("Failed to rename mailbox %q in %q: %v", input.MailboxPath, input.AccountName, err)
		return nil, MailboxOpResponse{Error: err.Error()}, nil
	}

	return nil, MailboxOpResponse{Success: result.Success, Message: result.Message}, nil
}
