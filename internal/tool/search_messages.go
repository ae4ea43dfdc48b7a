package tool

import (
	"context"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lucastalder/apple-mail-mcp/internal/mail"
)

// SearchMessagesRequest filters a mailbox by sender and/or subject.
type SearchMessagesRequest struct {
	AccountName     string `json:"account_name" jsonschema:"account name as shown in Mail.app"`
	MailboxPath     string `json:"mailbox_path" jsonschema:"mailbox path to search"`
	SenderContains  string `json:"sender_contains,omitempty" jsonschema:"filter to senders containing this string"`
	SubjectContains string `json:"subject_contains,omitempty" jsonschema:"filter to subjects containing this string"`
	Limit           int    `json:"limit,omitempty" jsonschema:"max messages to return (default 50)"`
	Offset          int    `json:"offset,omitempty" jsonschema:"messages to skip for pagination"`
}

// SearchMessagesResponse is one page of matching message summaries.
type SearchMessagesResponse struct {
	Messages []MessageSummary `json:"messages" jsonschema:"one page of matching summaries"`
	Total    int              `json:"total" jsonschema:"count of all matches before pagination"`
	Offset   int              `json:"offset" jsonschema:"offset the page was taken at"`
	Limit    int              `json:"limit" jsonschema:"limit the page was taken with"`
	HasMore  bool             `json:"has_more" jsonschema:"whether more matches exist"`
	Error    string           `json:"error,omitempty" jsonschema:"set when the search failed"`
}

type searchMessagesSvc interface {
	SearchMessages(ctx context.Context, accountName, mailboxPath, senderContains, subjectContains string, limit, offset int) (*mail.SummaryPage, error)
}

// NewSearchMessages creates the search_messages tool.
func NewSearchMessages(svc searchMessagesSvc) *SearchMessages {
	return &SearchMessages{svc: svc}
}

// SearchMessages searches a mailbox by substring filters.
type SearchMessages struct {
	svc searchMessagesSvc
}

func (t *SearchMessages) SearchMessages(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchMessagesRequest,
) (*mcp.CallToolResult, SearchMessagesResponse, error) {
	page, err := t.svc.SearchMessages(ctx,
		input.AccountName, input.MailboxPath,
		input.SenderContains, input.SubjectContains,
		input.Limit, input.Offset)
	if err != nil {
		log.Printf("Failed to search messages in %s/%s: %v", input.AccountName, input.MailboxPath, err)
		return nil, SearchMessagesResponse{Error: err.Error()}, nil
	}

	messages := make([]MessageSummary, 0, len(page.Messages))
	for _, s := range page.Messages {
		messages = append(messages, summaryFromMail(s))
	}

	return nil, SearchMessagesResponse{
		Messages: messages,
		Total:    page.Total,
		Offset:   page.Offset,
		Limit:    page.Limit,
		HasMore:  page.HasMore,
	}, nil
}
