package tool

import (
	"context"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lucastalder/apple-mail-mcp/internal/mail"
)

// ListMessagesRequest selects a window of a mailbox.
type ListMessagesRequest struct {
	AccountName    string `json:"account_name" jsonschema:"account name as shown in Mail.app"`
	MailboxPath    string `json:"mailbox_path" jsonschema:"mailbox path, e.g. INBOX"`
	Limit          int    `json:"limit,omitempty" jsonschema:"max messages to return (default 50)"`
	Offset         int    `json:"offset,omitempty" jsonschema:"messages to skip for pagination"`
	UnreadOnly     bool   `json:"unread_only,omitempty" jsonschema:"only unread messages"`
	FlaggedOnly    bool   `json:"flagged_only,omitempty" jsonschema:"only flagged messages"`
	IncludeContent bool   `json:"include_content,omitempty" jsonschema:"include message bodies"`
	ContentLimit   int    `json:"content_limit,omitempty" jsonschema:"max characters per body when include_content is set"`
}

// ListMessagesResponse is one page of messages. Body fields are only
// populated when include_content was requested.
type ListMessagesResponse struct {
	Messages []Message `json:"messages" jsonschema:"one page of messages"`
	Total    int       `json:"total" jsonschema:"count of all matching messages before pagination"`
	Offset   int       `json:"offset" jsonschema:"offset the page was taken at"`
	Limit    int       `json:"limit" jsonschema:"limit the page was taken with"`
	HasMore  bool      `json:"has_more" jsonschema:"whether more matching messages exist"`
	Error    string    `json:"error,omitempty" jsonschema:"set when the listing failed"`
}

type listMessagesSvc interface {
	ListMessages(ctx context.Context, q mail.ListQuery) (*mail.SummaryPage, error)
	ListMessagesWithContent(ctx context.Context, q mail.ListQuery) (*mail.MessagePage, error)
}

// NewListMessages creates the list_messages tool.
func NewListMessages(svc listMessagesSvc) *ListMessages {
	return &ListMessages{svc: svc}
}

// ListMessages pages through a mailbox.
type ListMessages struct {
	svc listMessagesSvc
}

func (t *ListMessages) ListMessages(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListMessagesRequest,
) (*mcp.CallToolResult, ListMessagesResponse, error) {
	q := mail.ListQuery{
		AccountName:  input.AccountName,
		MailboxPath:  input.MailboxPath,
		Limit:        input.Limit,
		Offset:       input.Offset,
		UnreadOnly:   input.UnreadOnly,
		FlaggedOnly:  input.FlaggedOnly,
		ContentLimit: input.ContentLimit,
	}

	if input.IncludeContent {
		page, err := t.svc.ListMessagesWithContent(ctx, q)
		if err != nil {
			log.Printf("Failed to list messages in %s/%s: %v", input.AccountName, input.MailboxPath, err)
			return nil, ListMessagesResponse{Error: err.Error()}, nil
		}

		messages := make([]Message, 0, len(page.Messages))
		for _, m := range page.Messages {
			messages = append(messages, messageFromMail(m))
		}
		return nil, pageResponse(messages, page.Page), nil
	}

	page, err := t.svc.ListMessages(ctx, q)
	if err != nil {
		log.Printf("Failed to list messages in %s/%s: %v", input.AccountName, input.MailboxPath, err)
		return nil, ListMessagesResponse{Error: err.Error()}, nil
	}

	messages := make([]Message, 0, len(page.Messages))
	for _, s := range page.Messages {
		sum := summaryFromMail(s)
		messages = append(messages, Message{
			ID:        sum.ID,
			Subject:   sum.Subject,
			Sender:    sum.Sender,
			Date:      sum.Date,
			IsRead:    sum.IsRead,
			IsFlagged: sum.IsFlagged,
		})
	}
	return nil, pageResponse(messages, page.Page), nil
}

func pageResponse(messages []Message, p mail.Page) ListMessagesResponse {
	return ListMessagesResponse{
		Messages: messages,
		Total:    p.Total,
		Offset:   p.Offset,
		Limit:    p.Limit,
		HasMore:  p.HasMore,
	}
}
