package mail

import (
	"context"
	"fmt"
	"log"

	"github.com/lucastalder/apple-mail-mcp/internal/applescript"
	"github.com/lucastalder/apple-mail-mcp/internal/gmail"
)

// moveViaArchive implements the two-phase move for Gmail-like accounts. A
// direct move there only adds the destination label; moving through the
// archive mailbox first strips the source label. Phases per id:
//
//  1. source -> archive
//  2. archive -> destination
//
// If phase 2 fails the message is moved back from archive to source on a
// best-effort basis; a failed rollback leaves it stranded in archive, which
// is reported distinctly. When no archive mailbox exists at all, a direct
// move runs instead and the result carries the label-behavior advisory.
func (c *Client) moveViaArchive(ctx context.Context, accountName, mailboxPath string, messageIDs []int64, destinationMailbox string) (*OpResult, error) {
	archive, err := c.findArchiveMailbox(ctx, accountName)
	if err != nil {
		return nil, err
	}

	if archive == "" {
		log.Printf("No archive mailbox in account %q, falling back to direct move", accountName)

		output, err := c.run.Run(ctx, applescript.MoveMessages(accountName, mailboxPath, messageIDs, destinationMailbox), bulkTimeout)
		if err != nil {
			return nil, fmt.Errorf("MoveMessages script failed: %w", err)
		}

		result := collectRows(fillMissing(parseResultRows(output), messageIDs), len(messageIDs))
		result.Message = fmt.Sprintf("Moved %d of %d messages from %q to %q. %s",
			result.SuccessCount, result.Total, mailboxPath, destinationMailbox, gmail.MoveWarning())
		return result, nil
	}

	rows := make([]ResultRow, 0, len(messageIDs))
	for _, id := range messageIDs {
		rows = append(rows, c.moveOneViaArchive(ctx, accountName, mailboxPath, id, archive, destinationMailbox))
	}

	result := collectRows(rows, len(messageIDs))
	result.Message = fmt.Sprintf("Moved %d of %d messages from %q to %q via %q",
		result.SuccessCount, result.Total, mailboxPath, destinationMailbox, archive)

	log.Printf("Two-phase moved %d/%d messages from %s/%s to %s via %s",
		result.SuccessCount, result.Total, accountName, mailboxPath, destinationMailbox, archive)
	return result, nil
}

// findArchiveMailbox probes the fixed candidate list and returns the first
// existing mailbox path, or empty when the account has none of them.
func (c *Client) findArchiveMailbox(ctx context.Context, accountName string) (string, error) {
	output, err := c.run.Run(ctx, applescript.FindMailbox(accountName, gmail.ArchiveCandidates), applescript.DefaultTimeout)
	if err != nil {
		return "", fmt.Errorf("FindMailbox script failed: %w", err)
	}
	return output, nil
}

// moveOneViaArchive runs both phases for a single id, isolating failures so
// the rest of the batch continues.
func (c *Client) moveOneViaArchive(ctx context.Context, accountName, mailboxPath string, messageID int64, archive, destinationMailbox string) ResultRow {
	archiveID, err := c.moveOne(ctx, accountName, mailboxPath, messageID, archive)
	if err != nil {
		return ResultRow{OldID: messageID, NewID: messageID, Err: err.Error()}
	}

	destID, err := c.moveOne(ctx, accountName, archive, archiveID, destinationMailbox)
	if err == nil {
		return ResultRow{OldID: messageID, NewID: destID}
	}

	// Phase 2 failed, try to put the message back where it came from.
	backID, rbErr := c.moveOne(ctx, accountName, archive, archiveID, mailboxPath)
	if rbErr != nil {
		log.Printf("Rollback of message %d from %q failed: %v", messageID, archive, rbErr)
		return ResultRow{
			OldID: messageID,
			NewID: archiveID,
			Err:   fmt.Sprintf("move to %q failed (%v); message stranded in %q", destinationMailbox, err, archive),
		}
	}

	return ResultRow{
		OldID: messageID,
		NewID: backID,
		Err:   fmt.Sprintf("move to %q failed (%v); message returned to %q", destinationMailbox, err, mailboxPath),
	}
}

// moveOne moves one message and returns its freshly issued id in the
// destination mailbox.
func (c *Client) moveOne(ctx context.Context, accountName, from string, messageID int64, to string) (int64, error) {
	output, err := c.run.Run(ctx, applescript.MoveMessage(accountName, from, messageID, to), bulkTimeout)
	if err != nil {
		return 0, err
	}

	row, err := parseResultRow(output)
	if err != nil {
		return 0, fmt.Errorf("parse move result failed: %w", err)
	}
	if row.Err != "" {
		return 0, fmt.Errorf("move reported failure: %s", row.Err)
	}
	return row.NewID, nil
}
