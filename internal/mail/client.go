package mail

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/lucastalder/apple-mail-mcp/internal/applescript"
	"github.com/lucastalder/apple-mail-mcp/internal/gmail"
)

// Per-operation timeouts. Content-heavy and bulk scripts get longer windows
// because Mail.app materializes message bodies lazily.
const (
	listTimeout    = 60 * time.Second
	contentTimeout = 120 * time.Second
	bulkTimeout    = 120 * time.Second
)

const defaultLimit = 50

type runner interface {
	Run(ctx context.Context, script applescript.Script, timeout time.Duration) (string, error)
}

// Client exposes Mail.app operations over a script runner. All methods are
// synchronous; each call runs at most one script at a time and never
// retries, since mutations against the external store are not idempotent.
type Client struct {
	run runner
}

// NewClient wraps a script runner, normally an *applescript.Executor.
func NewClient(r runner) *Client {
	return &Client{run: r}
}

// ListAccounts returns all configured accounts with their Gmail
// classification derived from server name or address.
func (c *Client) ListAccounts(ctx context.Context) ([]Account, error) {
	output, err := c.run.Run(ctx, applescript.ListAccounts(), applescript.DefaultTimeout)
	if err != nil {
		return nil, fmt.Errorf("ListAccounts script failed: %w", err)
	}

	accounts := parseAccounts(output)
	log.Printf("Found %d mail accounts", len(accounts))
	return accounts, nil
}

// ListMailboxes returns the mailboxes of one account, recursing into nested
// mailboxes unless includeNested is false.
func (c *Client) ListMailboxes(ctx context.Context, accountName string, includeNested bool) ([]Mailbox, error) {
	output, err := c.run.Run(ctx, applescript.ListMailboxes(accountName, includeNested), listTimeout)
	if err != nil {
		return nil, fmt.Errorf("ListMailboxes script failed: %w", err)
	}

	mailboxes := parseMailboxes(output)
	log.Printf("Found %d mailboxes for account %q", len(mailboxes), accountName)
	return mailboxes, nil
}

// ListQuery selects a window of a mailbox for listing.
type ListQuery struct {
	AccountName  string
	MailboxPath  string
	Limit        int
	Offset       int
	UnreadOnly   bool
	FlaggedOnly  bool
	ContentLimit int
}

func (q *ListQuery) normalize() {
	if q.Limit <= 0 {
		q.Limit = defaultLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	if q.ContentLimit < 0 {
		q.ContentLimit = 0
	}
}

// ListMessages lists message summaries for a window of a mailbox.
func (c *Client) ListMessages(ctx context.Context, q ListQuery) (*SummaryPage, error) {
	q.normalize()

	script := applescript.ListMessages(applescript.ListMessagesParams{
		AccountName: q.AccountName,
		MailboxPath: q.MailboxPath,
		Limit:       q.Limit,
		Offset:      q.Offset,
		UnreadOnly:  q.UnreadOnly,
		FlaggedOnly: q.FlaggedOnly,
	})
	output, err := c.run.Run(ctx, script, listTimeout)
	if err != nil {
		return nil, fmt.Errorf("ListMessages script failed: %w", err)
	}

	total, rest := splitTotal(output)
	messages := parseSummaries(rest)
	log.Printf("Found %d of %d messages in %s/%s", len(messages), total, q.AccountName, q.MailboxPath)

	return &SummaryPage{
		Page:     newPage(total, q.Offset, q.Limit, len(messages)),
		Messages: messages,
	}, nil
}

// ListMessagesWithContent lists full messages, bodies truncated server-side
// to q.ContentLimit when set (with "..." appended to bodies that hit it).
func (c *Client) ListMessagesWithContent(ctx context.Context, q ListQuery) (*MessagePage, error) {
	q.normalize()

	script := applescript.ListMessages(applescript.ListMessagesParams{
		AccountName:    q.AccountName,
		MailboxPath:    q.MailboxPath,
		Limit:          q.Limit,
		Offset:         q.Offset,
		UnreadOnly:     q.UnreadOnly,
		FlaggedOnly:    q.FlaggedOnly,
		IncludeContent: true,
		ContentLimit:   q.ContentLimit,
	})
	output, err := c.run.Run(ctx, script, contentTimeout)
	if err != nil {
		return nil, fmt.Errorf("ListMessages script failed: %w", err)
	}

	total, rest := splitTotal(output)
	messages := parseMessageBlocks(rest, q.ContentLimit)
	log.Printf("Found %d of %d messages in %s/%s", len(messages), total, q.AccountName, q.MailboxPath)

	return &MessagePage{
		Page:     newPage(total, q.Offset, q.Limit, len(messages)),
		Messages: messages,
	}, nil
}

// ReadMessage reads one message in full. Unlike batch reads, a malformed
// response is an error: there is no next record to fall back to.
func (c *Client) ReadMessage(ctx context.Context, accountName, mailboxPath string, messageID int64) (*Message, error) {
	output, err := c.run.Run(ctx, applescript.ReadMessage(accountName, mailboxPath, messageID), listTimeout)
	if err != nil {
		return nil, fmt.Errorf("ReadMessage script failed: %w", err)
	}

	msg, err := parseMessageBlock(output)
	if err != nil {
		return nil, fmt.Errorf("parse message %d failed: %w", messageID, err)
	}
	return msg, nil
}

// ReadMessages reads a batch of messages; ids that fail to resolve come
// back as per-id errors instead of aborting the batch.
func (c *Client) ReadMessages(ctx context.Context, accountName, mailboxPath string, messageIDs []int64) ([]ReadResult, error) {
	output, err := c.run.Run(ctx, applescript.ReadMessages(accountName, mailboxPath, messageIDs), contentTimeout)
	if err != nil {
		return nil, fmt.Errorf("ReadMessages script failed: %w", err)
	}

	results := parseReadResults(output)
	log.Printf("Read %d messages from %s/%s", len(results), accountName, mailboxPath)
	return results, nil
}

// SearchMessages filters a mailbox by sender and/or subject substrings and
// pages through the filtered set.
func (c *Client) SearchMessages(ctx context.Context, accountName, mailboxPath, senderContains, subjectContains string, limit, offset int) (*SummaryPage, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if offset < 0 {
		offset = 0
	}

	script := applescript.SearchMessages(accountName, mailboxPath, senderContains, subjectContains, limit, offset)
	output, err := c.run.Run(ctx, script, contentTimeout)
	if err != nil {
		return nil, fmt.Errorf("SearchMessages script failed: %w", err)
	}

	total, rest := splitTotal(output)
	messages := parseSummaries(rest)
	log.Printf("Search found %d of %d messages in %s/%s", len(messages), total, accountName, mailboxPath)

	return &SummaryPage{
		Page:     newPage(total, offset, limit, len(messages)),
		Messages: messages,
	}, nil
}

// MoveMessages moves a batch of messages to another mailbox of the same
// account. Gmail-like accounts take the two-phase archive route (see
// moveViaArchive); everything else is a single bulk script. Post-move
// numeric ids are re-resolved through the message's RFC 2822 id, which is
// assumed unique within the account; duplicate messages sharing one are a
// known ambiguity this heuristic cannot resolve.
func (c *Client) MoveMessages(ctx context.Context, accountName, mailboxPath string, messageIDs []int64, destinationMailbox string) (*OpResult, error) {
	isGmail, err := c.classifyAccount(ctx, accountName)
	if err != nil {
		return nil, err
	}

	if isGmail {
		return c.moveViaArchive(ctx, accountName, mailboxPath, messageIDs, destinationMailbox)
	}

	output, err := c.run.Run(ctx, applescript.MoveMessages(accountName, mailboxPath, messageIDs, destinationMailbox), bulkTimeout)
	if err != nil {
		return nil, fmt.Errorf("MoveMessages script failed: %w", err)
	}

	result := collectRows(fillMissing(parseResultRows(output), messageIDs), len(messageIDs))
	result.Message = fmt.Sprintf("Moved %d of %d messages from %q to %q",
		result.SuccessCount, result.Total, mailboxPath, destinationMailbox)

	log.Printf("Bulk moved %d/%d messages from %s/%s to %s",
		result.SuccessCount, result.Total, accountName, mailboxPath, destinationMailbox)
	return result, nil
}

// classifyAccount probes the account's address and server name and applies
// the Gmail heuristic. Probed fresh on every call so a reconfigured account
// is never misclassified by a stale answer.
func (c *Client) classifyAccount(ctx context.Context, accountName string) (bool, error) {
	output, err := c.run.Run(ctx, applescript.AccountInfo(accountName), applescript.DefaultTimeout)
	if err != nil {
		return false, fmt.Errorf("AccountInfo script failed: %w", err)
	}

	email, server, _ := strings.Cut(output, applescript.FieldSep)
	return gmail.IsGmailAccount(strings.TrimSpace(server), strings.TrimSpace(email)), nil
}

// SetMessagesStatus updates read and/or flagged state for a batch. Each
// requested change runs as its own bulk script; per-id outcomes from the
// phases are merged so every id appears exactly once, carrying the first
// error seen for it.
func (c *Client) SetMessagesStatus(ctx context.Context, accountName, mailboxPath string, messageIDs []int64, readStatus, flaggedStatus *bool) (*OpResult, error) {
	if readStatus == nil && flaggedStatus == nil {
		return &OpResult{Success: true, Message: "No changes requested"}, nil
	}

	merged := make(map[int64]ResultRow, len(messageIDs))
	var changes []string

	apply := func(script applescript.Script, label string) error {
		output, err := c.run.Run(ctx, script, bulkTimeout)
		if err != nil {
			return fmt.Errorf("%s script failed: %w", label, err)
		}
		for _, row := range parseResultRows(output) {
			if prev, ok := merged[row.OldID]; ok && prev.Err != "" {
				continue
			}
			merged[row.OldID] = row
		}
		changes = append(changes, label)
		return nil
	}

	if readStatus != nil {
		label := "marked read"
		if !*readStatus {
			label = "marked unread"
		}
		if err := apply(applescript.SetReadStatus(accountName, mailboxPath, messageIDs, *readStatus), label); err != nil {
			return nil, err
		}
	}
	if flaggedStatus != nil {
		label := "flagged"
		if !*flaggedStatus {
			label = "unflagged"
		}
		if err := apply(applescript.SetFlaggedStatus(accountName, mailboxPath, messageIDs, *flaggedStatus), label); err != nil {
			return nil, err
		}
	}

	rows := make([]ResultRow, 0, len(merged))
	for _, row := range merged {
		rows = append(rows, row)
	}

	result := collectRows(fillMissing(rows, messageIDs), len(messageIDs))
	result.Message = fmt.Sprintf("%d of %d messages %s", result.SuccessCount, result.Total, strings.Join(changes, ", "))

	log.Printf("Bulk set status (%s) on %d/%d messages in %s/%s",
		strings.Join(changes, ", "), result.SuccessCount, result.Total, accountName, mailboxPath)
	return result, nil
}

// CreateMailbox creates a mailbox, optionally nested under parentMailbox.
func (c *Client) CreateMailbox(ctx context.Context, accountName, mailboxName, parentMailbox string) (*OpResult, error) {
	_, err := c.run.Run(ctx, applescript.CreateMailbox(accountName, mailboxName, parentMailbox), applescript.DefaultTimeout)
	if err != nil {
		return nil, fmt.Errorf("CreateMailbox script failed: %w", err)
	}

	location := mailboxName
	if parentMailbox != "" {
		location = parentMailbox + "/" + mailboxName
	}
	log.Printf("Created mailbox %q in account %q", location, accountName)

	return &OpResult{
		Success: true,
		Message: fmt.Sprintf("Mailbox %q created", location),
	}, nil
}

// RenameMailbox renames a mailbox in place.
func (c *Client) RenameMailbox(ctx context.Context, accountName, mailboxPath, newName string) (*OpResult, error) {
	_, err := c.run.Run(ctx, applescript.RenameMailbox(accountName, mailboxPath, newName), applescript.DefaultTimeout)
	if err != nil {
		return nil, fmt.Errorf("RenameMailbox script failed: %w", err)
	}

	log.Printf("Renamed mailbox %q to %q in account %q", mailboxPath, newName, accountName)

	return &OpResult{
		Success: true,
		Message: fmt.Sprintf("Mailbox %q renamed to %q", mailboxPath, newName),
	}, nil
}

// fillMissing returns one row per requested id in caller order. Ids the
// script reported nothing for (malformed or missing rows) fail explicitly
// so SuccessCount+ErrorCount always adds up to the batch size.
func fillMissing(rows []ResultRow, ids []int64) []ResultRow {
	byID := make(map[int64]ResultRow, len(rows))
	for _, row := range rows {
		byID[row.OldID] = row
	}

	ordered := make([]ResultRow, 0, len(ids))
	for _, id := range ids {
		if row, ok := byID[id]; ok {
			ordered = append(ordered, row)
		} else {
			ordered = append(ordered, ResultRow{OldID: id, NewID: id, Err: "no result reported"})
		}
	}
	return ordered
}

func collectRows(rows []ResultRow, total int) *OpResult {
	result := &OpResult{Total: total, Rows: rows}
	for _, row := range rows {
		if row.Err == "" {
			result.SuccessCount++
		} else {
			result.ErrorCount++
		}
	}
	result.Success = result.ErrorCount == 0
	return result
}
