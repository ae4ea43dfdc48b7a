package mail

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucastalder/apple-mail-mcp/internal/applescript"
	"github.com/lucastalder/apple-mail-mcp/internal/gmail"
)

// Decoding is forward-only and tolerant: blank lines and blocks are
// skipped, under-length records are dropped, unparseable counts become zero
// and unparseable ids drop the record. Only single-message reads treat a
// short response as fatal, since they have no next record to continue with.

// splitTotal strips a leading TOTAL:<n> line and returns the count plus the
// remaining output. A missing or malformed count yields zero.
func splitTotal(output string) (int, string) {
	line, rest, found := strings.Cut(output, "\n")
	if !strings.HasPrefix(line, applescript.TotalPrefix) {
		return 0, output
	}
	total, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, applescript.TotalPrefix)))
	if err != nil || total < 0 {
		total = 0
	}
	if !found {
		rest = ""
	}
	return total, rest
}

func parseBool(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "true")
}

func parseCount(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func parseAccounts(output string) []Account {
	var accounts []Account
	for _, line := range strings.Split(output, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.Split(line, applescript.FieldSep)
		if len(parts) < 4 {
			continue
		}

		acc := Account{
			Name:        strings.TrimSpace(parts[0]),
			Email:       strings.TrimSpace(parts[1]),
			Enabled:     parseBool(parts[2]),
			AccountType: strings.TrimSpace(parts[3]),
		}
		if len(parts) > 4 {
			acc.Server = strings.TrimSpace(parts[4])
		}
		acc.IsGmail = gmail.IsGmailAccount(acc.Server, acc.Email)

		accounts = append(accounts, acc)
	}
	return accounts
}

func parseMailboxes(output string) []Mailbox {
	var mailboxes []Mailbox
	for _, line := range strings.Split(output, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.Split(line, applescript.FieldSep)
		if len(parts) < 3 {
			continue
		}
		mailboxes = append(mailboxes, Mailbox{
			Path:         strings.TrimSpace(parts[0]),
			MessageCount: parseCount(parts[1]),
			UnreadCount:  parseCount(parts[2]),
		})
	}
	return mailboxes
}

func parseSummaries(output string) []MessageSummary {
	var summaries []MessageSummary
	for _, line := range strings.Split(output, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.Split(line, applescript.FieldSep)
		if len(parts) < 6 {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
		if err != nil {
			continue
		}
		summaries = append(summaries, MessageSummary{
			ID:        id,
			Subject:   strings.TrimSpace(parts[1]),
			Sender:    strings.TrimSpace(parts[2]),
			Date:      strings.TrimSpace(parts[3]),
			IsRead:    parseBool(parts[4]),
			IsFlagged: parseBool(parts[5]),
		})
	}
	return summaries
}

// parseMessageBlock decodes one UnitSep-joined full-message block. The body
// field is kept verbatim; trimming it would eat significant whitespace.
func parseMessageBlock(block string) (*Message, error) {
	parts := strings.Split(block, applescript.UnitSep)
	if len(parts) < 9 {
		return nil, fmt.Errorf("invalid message response format: got %d fields", len(parts))
	}
	id, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid message id %q: %w", parts[0], err)
	}
	return &Message{
		ID:        id,
		Subject:   strings.TrimSpace(parts[1]),
		Sender:    strings.TrimSpace(parts[2]),
		To:        strings.TrimSpace(parts[3]),
		CC:        strings.TrimSpace(parts[4]),
		Date:      strings.TrimSpace(parts[5]),
		IsRead:    parseBool(parts[6]),
		IsFlagged: parseBool(parts[7]),
		Content:   parts[8],
	}, nil
}

// parseMessageBlocks decodes a GroupSep-joined bulk response, dropping
// malformed blocks. contentLimit > 0 appends the truncation marker to
// bodies that hit the server-side limit.
func parseMessageBlocks(output string, contentLimit int) []Message {
	var messages []Message
	for _, block := range strings.Split(output, applescript.GroupSep) {
		if strings.TrimSpace(block) == "" {
			continue
		}
		msg, err := parseMessageBlock(block)
		if err != nil {
			continue
		}
		if contentLimit > 0 && len(msg.Content) >= contentLimit {
			msg.Content += "..."
		}
		messages = append(messages, *msg)
	}
	return messages
}

// parseReadResults decodes a batch read, keeping per-id error blocks as
// ReadError entries.
func parseReadResults(output string) []ReadResult {
	var results []ReadResult
	for _, block := range strings.Split(output, applescript.GroupSep) {
		if strings.TrimSpace(block) == "" {
			continue
		}
		parts := strings.Split(block, applescript.UnitSep)
		if len(parts) < 2 {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
		if err != nil {
			continue
		}

		if len(parts) >= 3 && strings.TrimSpace(parts[1]) == "ERROR" {
			results = append(results, ReadResult{
				Err: &ReadError{ID: id, Reason: strings.TrimSpace(parts[2])},
			})
			continue
		}

		msg, err := parseMessageBlock(block)
		if err != nil {
			continue
		}
		results = append(results, ReadResult{Message: msg})
	}
	return results
}

// parseResultRows decodes per-id bulk rows: old id, new id, outcome tag
// ("success" or "error:<reason>").
func parseResultRows(output string) []ResultRow {
	var rows []ResultRow
	for _, line := range strings.Split(output, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		row, err := parseResultRow(line)
		if err != nil {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

func parseResultRow(line string) (ResultRow, error) {
	parts := strings.Split(line, applescript.FieldSep)
	if len(parts) < 3 {
		return ResultRow{}, fmt.Errorf("invalid result row: got %d fields", len(parts))
	}
	oldID, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return ResultRow{}, fmt.Errorf("invalid old id %q: %w", parts[0], err)
	}
	newID, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		newID = oldID
	}

	row := ResultRow{OldID: oldID, NewID: newID}
	outcome := strings.TrimSpace(parts[2])
	if outcome != "success" {
		row.Err = strings.TrimPrefix(outcome, "error:")
		if row.Err == "" {
			row.Err = outcome
		}
	}
	return row, nil
}
