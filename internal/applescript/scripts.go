package applescript

import (
	"fmt"
	"strings"
)

// Script is a complete AppleScript program ready for the executor. Builders
// below are the only place script text is assembled; they accept typed
// parameters and run every free-text value through Escape.
type Script string

func (s Script) String() string { return string(s) }

// ListAccounts returns one line per account: name, email addresses, enabled,
// account type and server name (empty when the account has none), joined by
// FieldSep.
func ListAccounts() Script {
	return Script(`
tell application "Mail"
    set fsep to character id 30
    set output to ""
    repeat with acc in accounts
        set accName to name of acc
        set accEmail to email addresses of acc as string
        set accEnabled to enabled of acc
        set accType to account type of acc as string
        set accServer to ""
        try
            set accServer to server name of acc
        end try
        set output to output & accName & fsep & accEmail & fsep & accEnabled & fsep & accType & fsep & accServer & linefeed
    end repeat
    return output
end tell
`)
}

// AccountInfo returns email addresses and server name for one account,
// joined by FieldSep. Used to classify the account at move time.
func AccountInfo(accountName string) Script {
	return Script(fmt.Sprintf(`
tell application "Mail"
    set fsep to character id 30
    set acc to account "%s"
    set accEmail to email addresses of acc as string
    set accServer to ""
    try
        set accServer to server name of acc
    end try
    return accEmail & fsep & accServer
end tell
`, Escape(accountName)))
}

// ListMailboxes returns one line per mailbox: path, message count, unread
// count. With includeNested the account's mailbox tree is walked
// breadth-first and paths are slash-joined.
func ListMailboxes(accountName string, includeNested bool) Script {
	if !includeNested {
		return Script(fmt.Sprintf(`
tell application "Mail"
    set fsep to character id 30
    set output to ""
    set acc to account "%s"
    repeat with mb in mailboxes of acc
        set mbName to name of mb
        set msgCount to count of messages of mb
        set unreadCount to unread count of mb
        set output to output & mbName & fsep & msgCount & fsep & unreadCount & linefeed
    end repeat
    return output
end tell
`, Escape(accountName)))
	}

	return Script(fmt.Sprintf(`
tell application "Mail"
    set fsep to character id 30
    set output to ""
    set acc to account "%s"

    -- Queue-based traversal; AppleScript recursion over mailbox trees is slow
    set mbQueue to {}
    set prefixQueue to {}
    repeat with mb in mailboxes of acc
        set end of mbQueue to mb
        set end of prefixQueue to ""
    end repeat

    repeat while (count of mbQueue) > 0
        set currentMb to item 1 of mbQueue
        set currentPrefix to item 1 of prefixQueue
        if (count of mbQueue) > 1 then
            set mbQueue to items 2 thru -1 of mbQueue
            set prefixQueue to items 2 thru -1 of prefixQueue
        else
            set mbQueue to {}
            set prefixQueue to {}
        end if

        set mbName to name of currentMb
        set fullPath to currentPrefix & mbName
        set msgCount to count of messages of currentMb
        set unreadCount to unread count of currentMb
        set output to output & fullPath & fsep & msgCount & fsep & unreadCount & linefeed

        try
            repeat with childMb in mailboxes of currentMb
                set end of mbQueue to childMb
                set end of prefixQueue to fullPath & "/"
            end repeat
        end try
    end repeat

    return output
end tell
`, Escape(accountName)))
}

// ListMessagesParams parameterizes ListMessages.
type ListMessagesParams struct {
	AccountName    string
	MailboxPath    string
	Limit          int
	Offset         int
	UnreadOnly     bool
	FlaggedOnly    bool
	IncludeContent bool
	ContentLimit   int // 0 means no server-side truncation
}

// ListMessages lists a window of a mailbox, newest-first as Mail.app orders
// them. The first output line is TOTAL:<n> with the filtered total; the
// window is clamped so the script never indexes out of range. Without
// IncludeContent each message is one FieldSep-joined line; with it each
// message is a UnitSep-joined block terminated by GroupSep.
func ListMessages(p ListMessagesParams) Script {
	filter := messageFilter(p.UnreadOnly, p.FlaggedOnly)

	if !p.IncludeContent {
		return Script(fmt.Sprintf(`
tell application "Mail"
    set fsep to character id 30
    set acc to account "%s"
    set mb to mailbox "%s" of acc

    set msgList to (messages of mb %s)
    set totalCount to count of msgList
    set output to "TOTAL:" & totalCount & linefeed
    set startIdx to %d + 1
    set endIdx to %d + %d
    if endIdx > totalCount then set endIdx to totalCount
    if startIdx > totalCount then set startIdx to totalCount + 1

    repeat with i from startIdx to endIdx
        set msg to item i of msgList
        set msgId to id of msg
        set msgSubject to subject of msg
        set msgSender to sender of msg
        set msgDate to date received of msg as string
        set msgRead to read status of msg
        set msgFlagged to flagged status of msg
        set output to output & msgId & fsep & msgSubject & fsep & msgSender & fsep & msgDate & fsep & msgRead & fsep & msgFlagged & linefeed
    end repeat

    return output
end tell
`, Escape(p.AccountName), Escape(p.MailboxPath), filter, p.Offset, p.Offset, p.Limit))
	}

	truncation := ""
	if p.ContentLimit > 0 {
		truncation = fmt.Sprintf(`
        if (count of msgContent) > %d then
            set msgContent to text 1 thru %d of msgContent
        end if`, p.ContentLimit, p.ContentLimit)
	}

	return Script(fmt.Sprintf(`
tell application "Mail"
    set usep to character id 31
    set gsep to character id 29
    set acc to account "%s"
    set mb to mailbox "%s" of acc

    set msgList to (messages of mb %s)
    set totalCount to count of msgList
    set output to "TOTAL:" & totalCount & linefeed
    set startIdx to %d + 1
    set endIdx to %d + %d
    if endIdx > totalCount then set endIdx to totalCount
    if startIdx > totalCount then set startIdx to totalCount + 1

    repeat with i from startIdx to endIdx
        set msg to item i of msgList
        set msgId to id of msg
        set msgSubject to subject of msg
        set msgSender to sender of msg
        set msgDate to date received of msg as string
        set msgRead to read status of msg
        set msgFlagged to flagged status of msg
        set msgContent to content of msg%s

        set toList to ""
        repeat with recip in to recipients of msg
            set toList to toList & address of recip & ", "
        end repeat
        if toList is not "" then set toList to text 1 thru -3 of toList

        set ccList to ""
        repeat with recip in cc recipients of msg
            set ccList to ccList & address of recip & ", "
        end repeat
        if ccList is not "" then set ccList to text 1 thru -3 of ccList

        set output to output & msgId & usep & msgSubject & usep & msgSender & usep & toList & usep & ccList & usep & msgDate & usep & msgRead & usep & msgFlagged & usep & msgContent & gsep
    end repeat

    return output
end tell
`, Escape(p.AccountName), Escape(p.MailboxPath), filter, p.Offset, p.Offset, p.Limit, truncation))
}

func messageFilter(unreadOnly, flaggedOnly bool) string {
	switch {
	case unreadOnly && flaggedOnly:
		return "whose read status is false and flagged status is true"
	case unreadOnly:
		return "whose read status is false"
	case flaggedOnly:
		return "whose flagged status is true"
	}
	return ""
}

// ReadMessage reads one message by id as a single UnitSep-joined block.
// An unknown id makes the script itself error.
func ReadMessage(accountName, mailboxPath string, messageID int64) Script {
	return Script(fmt.Sprintf(`
tell application "Mail"
    set usep to character id 31
    set acc to account "%s"
    set mb to mailbox "%s" of acc
    set msg to first message of mb whose id is %d

    set msgId to id of msg
    set msgSubject to subject of msg
    set msgSender to sender of msg
    set msgDate to date received of msg as string
    set msgRead to read status of msg
    set msgFlagged to flagged status of msg
    set msgContent to content of msg

    set toList to ""
    repeat with recip in to recipients of msg
        set toList to toList & address of recip & ", "
    end repeat
    if toList is not "" then set toList to text 1 thru -3 of toList

    set ccList to ""
    repeat with recip in cc recipients of msg
        set ccList to ccList & address of recip & ", "
    end repeat
    if ccList is not "" then set ccList to text 1 thru -3 of ccList

    return msgId & usep & msgSubject & usep & msgSender & usep & toList & usep & ccList & usep & msgDate & usep & msgRead & usep & msgFlagged & usep & msgContent
end tell
`, Escape(accountName), Escape(mailboxPath), messageID))
}

// ReadMessages reads several messages in one call. Each id is wrapped in its
// own try block so one bad id does not abort the batch; a failed read emits
// an id/ERROR/<message> block instead of a full one.
func ReadMessages(accountName, mailboxPath string, messageIDs []int64) Script {
	return Script(fmt.Sprintf(`
tell application "Mail"
    set usep to character id 31
    set gsep to character id 29
    set acc to account "%s"
    set mb to mailbox "%s" of acc
    set idList to {%s}
    set output to ""

    repeat with msgId in idList
        try
            set msg to first message of mb whose id is msgId

            set msgSubject to subject of msg
            set msgSender to sender of msg
            set msgDate to date received of msg as string
            set msgRead to read status of msg
            set msgFlagged to flagged status of msg
            set msgContent to content of msg

            set toList to ""
            repeat with recip in to recipients of msg
                set toList to toList & address of recip & ", "
            end repeat
            if toList is not "" then set toList to text 1 thru -3 of toList

            set ccList to ""
            repeat with recip in cc recipients of msg
                set ccList to ccList & address of recip & ", "
            end repeat
            if ccList is not "" then set ccList to text 1 thru -3 of ccList

            set output to output & msgId & usep & msgSubject & usep & msgSender & usep & toList & usep & ccList & usep & msgDate & usep & msgRead & usep & msgFlagged & usep & msgContent & gsep
        on error errMsg
            set output to output & msgId & usep & "ERROR" & usep & errMsg & gsep
        end try
    end repeat

    return output
end tell
`, Escape(accountName), Escape(mailboxPath), idList(messageIDs)))
}

// SearchMessages filters a mailbox by sender and/or subject substring and
// pages through the filtered set like ListMessages.
func SearchMessages(accountName, mailboxPath, senderContains, subjectContains string, limit, offset int) Script {
	var conditions []string
	if senderContains != "" {
		conditions = append(conditions, fmt.Sprintf(`sender contains "%s"`, Escape(senderContains)))
	}
	if subjectContains != "" {
		conditions = append(conditions, fmt.Sprintf(`subject contains "%s"`, Escape(subjectContains)))
	}
	filter := ""
	if len(conditions) > 0 {
		filter = "whose " + strings.Join(conditions, " and ")
	}

	return Script(fmt.Sprintf(`
tell application "Mail"
    set fsep to character id 30
    set acc to account "%s"
    set mb to mailbox "%s" of acc

    set msgList to (messages of mb %s)
    set totalCount to count of msgList
    set output to "TOTAL:" & totalCount & linefeed
    set startIdx to %d + 1
    set endIdx to %d + %d
    if endIdx > totalCount then set endIdx to totalCount
    if startIdx > totalCount then set startIdx to totalCount + 1

    repeat with i from startIdx to endIdx
        set msg to item i of msgList
        set msgId to id of msg
        set msgSubject to subject of msg
        set msgSender to sender of msg
        set msgDate to date received of msg as string
        set msgRead to read status of msg
        set msgFlagged to flagged status of msg
        set output to output & msgId & fsep & msgSubject & fsep & msgSender & fsep & msgDate & fsep & msgRead & fsep & msgFlagged & linefeed
    end repeat

    return output
end tell
`, Escape(accountName), Escape(mailboxPath), filter, offset, offset, limit))
}

// MoveMessages moves a batch of messages, emitting one line per id:
// old id, new id, outcome ("success" or "error:<reason>"; on error the old
// id is echoed back in the new-id slot). The moved message is re-found in
// the destination by its RFC 2822 message id, which survives the move, since
// Mail.app issues a fresh numeric id on every move.
func MoveMessages(accountName, mailboxPath string, messageIDs []int64, destinationMailbox string) Script {
	return Script(fmt.Sprintf(`
tell application "Mail"
    set fsep to character id 30
    set acc to account "%s"
    set srcMb to mailbox "%s" of acc
    set destMb to mailbox "%s" of acc
    set idList to {%s}
    set output to ""

    repeat with msgId in idList
        try
            set msg to first message of srcMb whose id is msgId
            set msgGlobalId to message id of msg

            move msg to destMb

            set movedMsg to first message of destMb whose message id is msgGlobalId
            set newId to id of movedMsg

            set output to output & msgId & fsep & newId & fsep & "success" & linefeed
        on error errMsg
            set output to output & msgId & fsep & msgId & fsep & "error:" & errMsg & linefeed
        end try
    end repeat

    return output
end tell
`, Escape(accountName), Escape(mailboxPath), Escape(destinationMailbox), idList(messageIDs)))
}

// MoveMessage moves a single message and returns one result line in the same
// format as MoveMessages. A failed lookup or move errors the whole script so
// the caller can react between phases of a two-phase move.
func MoveMessage(accountName, mailboxPath string, messageID int64, destinationMailbox string) Script {
	return Script(fmt.Sprintf(`
tell application "Mail"
    set fsep to character id 30
    set acc to account "%s"
    set srcMb to mailbox "%s" of acc
    set destMb to mailbox "%s" of acc
    set msg to first message of srcMb whose id is %d
    set msgGlobalId to message id of msg

    move msg to destMb

    set movedMsg to first message of destMb whose message id is msgGlobalId
    set newId to id of movedMsg

    return "%d" & fsep & newId & fsep & "success"
end tell
`, Escape(accountName), Escape(mailboxPath), Escape(destinationMailbox), messageID, messageID))
}

// FindMailbox returns the first candidate path that names an existing
// mailbox in the account, or an empty string.
func FindMailbox(accountName string, candidates []string) Script {
	var b strings.Builder
	fmt.Fprintf(&b, "\ntell application \"Mail\"\n    set acc to account \"%s\"\n", Escape(accountName))
	for _, c := range candidates {
		fmt.Fprintf(&b, `    try
        set mb to mailbox "%s" of acc
        return "%s"
    end try
`, Escape(c), Escape(c))
	}
	b.WriteString("    return \"\"\nend tell\n")
	return Script(b.String())
}

// SetReadStatus sets the read flag on a batch of messages, one result line
// per id in the MoveMessages row format (the id does not change).
func SetReadStatus(accountName, mailboxPath string, messageIDs []int64, read bool) Script {
	return setStatusScript(accountName, mailboxPath, messageIDs, "read status", read)
}

// SetFlaggedStatus sets the flagged flag on a batch of messages.
func SetFlaggedStatus(accountName, mailboxPath string, messageIDs []int64, flagged bool) Script {
	return setStatusScript(accountName, mailboxPath, messageIDs, "flagged status", flagged)
}

func setStatusScript(accountName, mailboxPath string, messageIDs []int64, property string, value bool) Script {
	return Script(fmt.Sprintf(`
tell application "Mail"
    set fsep to character id 30
    set acc to account "%s"
    set mb to mailbox "%s" of acc
    set idList to {%s}
    set output to ""

    repeat with msgId in idList
        try
            set msg to first message of mb whose id is msgId
            set %s of msg to %t
            set output to output & msgId & fsep & msgId & fsep & "success" & linefeed
        on error errMsg
            set output to output & msgId & fsep & msgId & fsep & "error:" & errMsg & linefeed
        end try
    end repeat

    return output
end tell
`, Escape(accountName), Escape(mailboxPath), idList(messageIDs), property, value))
}

// CreateMailbox creates a mailbox, optionally nested under parentMailbox.
func CreateMailbox(accountName, mailboxName, parentMailbox string) Script {
	if parentMailbox != "" {
		return Script(fmt.Sprintf(`
tell application "Mail"
    set acc to account "%s"
    set parentMb to mailbox "%s" of acc
    make new mailbox with properties {name:"%s"} at parentMb
    return "created"
end tell
`, Escape(accountName), Escape(parentMailbox), Escape(mailboxName)))
	}
	return Script(fmt.Sprintf(`
tell application "Mail"
    set acc to account "%s"
    make new mailbox with properties {name:"%s"} at acc
    return "created"
end tell
`, Escape(accountName), Escape(mailboxName)))
}

// RenameMailbox renames an existing mailbox in place.
func RenameMailbox(accountName, mailboxPath, newName string) Script {
	return Script(fmt.Sprintf(`
tell application "Mail"
    set acc to account "%s"
    set mb to mailbox "%s" of acc
    set name of mb to "%s"
    return "renamed"
end tell
`, Escape(accountName), Escape(mailboxPath), Escape(newName)))
}

func idList(ids []int64) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%d", id))
	}
	return strings.Join(parts, ", ")
}
