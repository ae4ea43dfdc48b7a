package tool

import (
	"context"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lucastalder/apple-mail-mcp/internal/mail"
)

// ReadMessagesRequest names the messages to read.
type ReadMessagesRequest struct {
	AccountName string  `json:"account_name" jsonschema:"account name as shown in Mail.app"`
	MailboxPath string  `json:"mailbox_path" jsonschema:"mailbox path containing the messages"`
	MessageIDs  []int64 `json:"message_ids" jsonschema:"ids from list_messages or search_messages"`
}

// MessageResult is one entry of a batch read: either the full message or a
// per-id error.
type MessageResult struct {
	ID      int64    `json:"id" jsonschema:"requested message id"`
	Message *Message `json:"message,omitempty" jsonschema:"the message when the read succeeded"`
	Error   string   `json:"error,omitempty" jsonschema:"failure reason for this id"`
}

// ReadMessagesResponse carries one result per readable id, or the bridge
// error when the whole batch failed.
type ReadMessagesResponse struct {
	Messages []MessageResult `json:"messages" jsonschema:"per-id read results"`
	Error    string          `json:"error,omitempty" jsonschema:"set when the batch failed entirely"`
}

type readMessagesSvc interface {
	ReadMessages(ctx context.Context, accountName, mailboxPath string, messageIDs []int64) ([]mail.ReadResult, error)
}

// NewReadMessages creates the read_messages tool.
func NewReadMessages(svc readMessagesSvc) *ReadMessages {
	return &ReadMessages{svc: svc}
}

// ReadMessages reads full message content in batch.
type ReadMessages struct {
	svc readMessagesSvc
}

func (t *ReadMessages) ReadMessages(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ReadMessagesRequest,
) (*mcp.CallToolResult, ReadMessagesResponse, error) {
	results, err := t.svc.ReadMessages(ctx, input.AccountName, input.MailboxPath, input.MessageIDs)
	if err != nil {
		log.Printf("Failed to read messages in %s/%s: %v", input.AccountName, input.MailboxPath, err)
		return nil, ReadMessagesResponse{Error: err.Error()}, nil
	}

	out := make([]MessageResult, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			out = append(out, MessageResult{ID: r.Err.ID, Error: r.Err.Reason})
			continue
		}
		msg := messageFromMail(*r.Message)
		out = append(out, MessageResult{ID: msg.ID, Message: &msg})
	}

	return nil, ReadMessagesResponse{Messages: out}, nil
}
