package tool

import (
	"context"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lucastalder/apple-mail-mcp/internal/mail"
)

// SetStatusRequest names the messages and the flag changes to apply. A nil
// status field leaves that flag unchanged.
type SetStatusRequest struct {
	AccountName   string  `json:"account_name" jsonschema:"account name as shown in Mail.app"`
	MailboxPath   string  `json:"mailbox_path" jsonschema:"mailbox path containing the messages"`
	MessageIDs    []int64 `json:"message_ids" jsonschema:"ids of the messages to update"`
	ReadStatus    *bool   `json:"read_status,omitempty" jsonschema:"true marks read, false marks unread, omit to skip"`
	FlaggedStatus *bool   `json:"flagged_status,omitempty" jsonschema:"true flags, false unflags, omit to skip"`
}

// SetStatusResponse aggregates the bulk status update.
type SetStatusResponse struct {
	Success      bool        `json:"success" jsonschema:"true when every id updated"`
	Message      string      `json:"message,omitempty" jsonschema:"human-readable outcome"`
	UpdatedCount int         `json:"updated_count" jsonschema:"ids updated successfully"`
	ErrorCount   int         `json:"error_count" jsonschema:"ids that failed"`
	Total        int         `json:"total" jsonschema:"ids requested"`
	Results      []ResultRow `json:"results,omitempty" jsonschema:"per-id outcome rows"`
	Error        string      `json:"error,omitempty" jsonschema:"set when the whole operation failed"`
}

type setStatusSvc interface {
	SetMessagesStatus(ctx context.Context, accountName, mailboxPath string, messageIDs []int64, readStatus, flaggedStatus *bool) (*mail.OpResult, error)
}

// NewSetStatus creates the set_messages_status tool.
func NewSetStatus(svc setStatusSvc) *SetStatus {
	return &SetStatus{svc: svc}
}

// SetStatus updates read/flagged state in batch.
type SetStatus struct {
	svc setStatusSvc
}

func (t *SetStatus) SetMessagesStatus(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SetStatusRequest,
) (*mcp.CallToolResult, SetStatusResponse, error) {
	result, err := t.svc.SetMessagesStatus(ctx,
		input.AccountName, input.MailboxPath, input.MessageIDs,
		input.ReadStatus, input.FlaggedStatus)
	if err != nil {
		log.Printf("Failed to set status in %s/%s: %v", input.AccountName, input.MailboxPath, err)
		return nil, SetStatusResponse{Error: err.Error()}, nil
	}

	return nil, SetStatusResponse{
		Success:      result.Success,
		Message:      result.Message,
		UpdatedCount: result.SuccessCount,
		ErrorCount:   result.ErrorCount,
		Total:        result.Total,
		Results:      rowsFromMail(result.Rows),
	}, nil
}
