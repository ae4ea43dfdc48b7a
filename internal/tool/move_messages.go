package tool

import (
	"context"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lucastalder/apple-mail-mcp/internal/mail"
)

// MoveMessagesRequest names the messages to move and where to.
type MoveMessagesRequest struct {
	AccountName        string  `json:"account_name" jsonschema:"account name as shown in Mail.app"`
	MailboxPath        string  `json:"mailbox_path" jsonschema:"current mailbox path containing the messages"`
	MessageIDs         []int64 `json:"message_ids" jsonschema:"ids of the messages to move"`
	DestinationMailbox string  `json:"destination_mailbox" jsonschema:"destination mailbox path"`
}

// MoveMessagesResponse aggregates the bulk move. Message ids change when a
// message is moved; Results maps each old id to its new one.
type MoveMessagesResponse struct {
	Success    bool        `json:"success" jsonschema:"true when every id moved"`
	Message    string      `json:"message,omitempty" jsonschema:"human-readable outcome, including Gmail advisories"`
	MovedCount int         `json:"moved_count" jsonschema:"ids moved successfully"`
	ErrorCount int         `json:"error_count" jsonschema:"ids that failed"`
	Total      int         `json:"total" jsonschema:"ids requested"`
	Results    []ResultRow `json:"results,omitempty" jsonschema:"per-id outcome rows"`
	Error      string      `json:"error,omitempty" jsonschema:"set when the whole operation failed"`
}

type moveMessagesSvc interface {
	MoveMessages(ctx context.Context, accountName, mailboxPath string, messageIDs []int64, destinationMailbox string) (*mail.OpResult, error)
}

// NewMoveMessages creates the move_messages tool.
func NewMoveMessages(svc moveMessagesSvc) *MoveMessages {
	return &MoveMessages{svc: svc}
}

// MoveMessages moves messages between mailboxes of one account.
type MoveMessages struct {
	svc moveMessagesSvc
}

func (t *MoveMessages) MoveMessages(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input MoveMessagesRequest,
) (*mcp.CallToolResult, MoveMessagesResponse, error) {
	result, err := t.svc.MoveMessages(ctx,
		input.AccountName, input.MailboxPath, input.MessageIDs, input.DestinationMailbox)
	if err != nil {
		log.Printf("Failed to move messages from %s/%s to %s: %v",
			input.AccountName, input.MailboxPath, input.DestinationMailbox, err)
		return nil, MoveMessagesResponse{Error: err.Error()}, nil
	}

	return nil, MoveMessagesResponse{
		Success:    result.Success,
		Message:    result.Message,
		MovedCount: result.SuccessCount,
		ErrorCount: result.ErrorCount,
		Total:      result.Total,
		Results:    rowsFromMail(result.Rows),
	}, nil
}
