// Package tool exposes Apple Mail operations as MCP tools. Handlers never
// return errors across the transport; failures become structured payload
// fields so callers always receive a well-formed result shape.
package tool

import "github.com/lucastalder/apple-mail-mcp/internal/mail"

// Account describes one configured mail account.
type Account struct {
	Name        string `json:"name" jsonschema:"account name as shown in Mail.app"`
	Email       string `json:"email" jsonschema:"email address(es) of the account"`
	Enabled     bool   `json:"enabled" jsonschema:"whether the account is enabled"`
	AccountType string `json:"account_type" jsonschema:"account type (IMAP, POP, iCloud...)"`
	IsGmail     bool   `json:"is_gmail" jsonschema:"whether the account appears to be Gmail"`
}

// Mailbox describes one mailbox with snapshot counts.
type Mailbox struct {
	Path         string `json:"path" jsonschema:"slash-joined mailbox path"`
	MessageCount int    `json:"message_count" jsonschema:"total messages at listing time"`
	UnreadCount  int    `json:"unread_count" jsonschema:"unread messages at listing time"`
}

// MessageSummary contains message metadata without the body. The id is only
// valid within (account, mailbox) and changes when the message is moved.
type MessageSummary struct {
	ID        int64  `json:"id" jsonschema:"message id, reissued on every move"`
	Subject   string `json:"subject" jsonschema:"email subject"`
	Sender    string `json:"sender" jsonschema:"sender address"`
	Date      string `json:"date" jsonschema:"date received"`
	IsRead    bool   `json:"is_read" jsonschema:"read status"`
	IsFlagged bool   `json:"is_flagged" jsonschema:"flagged status"`
}

// Message is a full message including recipients and body content.
type Message struct {
	ID        int64  `json:"id" jsonschema:"message id, reissued on every move"`
	Subject   string `json:"subject" jsonschema:"email subject"`
	Sender    string `json:"sender" jsonschema:"sender address"`
	To        string `json:"to,omitempty" jsonschema:"comma-joined To addresses"`
	CC        string `json:"cc,omitempty" jsonschema:"comma-joined CC addresses"`
	Date      string `json:"date" jsonschema:"date received"`
	IsRead    bool   `json:"is_read" jsonschema:"read status"`
	IsFlagged bool   `json:"is_flagged" jsonschema:"flagged status"`
	Content   string `json:"content,omitempty" jsonschema:"message body, possibly truncated"`
}

// ResultRow is the per-id outcome of a bulk operation.
type ResultRow struct {
	OldID   int64  `json:"old_id" jsonschema:"id the caller passed in"`
	NewID   int64  `json:"new_id" jsonschema:"id after the operation (old id echoed on failure)"`
	Success bool   `json:"success" jsonschema:"whether this id succeeded"`
	Error   string `json:"error,omitempty" jsonschema:"failure reason for this id"`
}

func accountFromMail(a mail.Account) Account {
	return Account{
		Name:        a.Name,
		Email:       a.Email,
		Enabled:     a.Enabled,
		AccountType: a.AccountType,
		IsGmail:     a.IsGmail,
	}
}

func mailboxFromMail(m mail.Mailbox) Mailbox {
	return Mailbox{
		Path:         m.Path,
		MessageCount: m.MessageCount,
		UnreadCount:  m.UnreadCount,
	}
}

func summaryFromMail(s mail.MessageSummary) MessageSummary {
	return MessageSummary{
		ID:        s.ID,
		Subject:   s.Subject,
		Sender:    s.Sender,
		Date:      s.Date,
		IsRead:    s.IsRead,
		IsFlagged: s.IsFlagged,
	}
}

func messageFromMail(m mail.Message) Message {
	return Message{
		ID:        m.ID,
		Subject:   m.Subject,
		Sender:    m.Sender,
		To:        m.To,
		CC:        m.CC,
		Date:      m.Date,
		IsRead:    m.IsRead,
		IsFlagged: m.IsFlagged,
		Content:   m.Content,
	}
}

func rowsFromMail(rows []mail.ResultRow) []ResultRow {
	out := make([]ResultRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, ResultRow{
			OldID:   r.OldID,
			NewID:   r.NewID,
			Success: r.Err == "",
			Error:   r.Err,
		})
	}
	return out
}
