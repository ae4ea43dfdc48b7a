// Package mail drives Mail.app through the AppleScript bridge and decodes
// its delimited output into typed records. Every record is a transient
// snapshot; the external mail store remains the source of truth.
package mail

// Account is one configured mail account. IsGmail is derived from the
// server name and address when the record is built, never cached.
type Account struct {
	Name        string
	Email       string
	Enabled     bool
	AccountType string
	Server      string
	IsGmail     bool
}

// Mailbox is a snapshot of one mailbox. Path is slash-joined and unique
// within the account at listing time; counts are not live.
type Mailbox struct {
	Path         string
	MessageCount int
	UnreadCount  int
}

// MessageSummary identifies a message within (account, mailbox) at a point
// in time. The numeric ID is reissued by Mail.app on every move.
type MessageSummary struct {
	ID        int64
	Subject   string
	Sender    string
	Date      string
	IsRead    bool
	IsFlagged bool
}

// Message is a full message including recipients and body. Content may be
// truncated to a caller-specified limit with "..." appended.
type Message struct {
	ID        int64
	Subject   string
	Sender    string
	To        string
	CC        string
	Date      string
	IsRead    bool
	IsFlagged bool
	Content   string
}

// Page carries pagination state for a listing window.
type Page struct {
	Total   int
	Offset  int
	Limit   int
	HasMore bool
}

func newPage(total, offset, limit, count int) Page {
	return Page{
		Total:   total,
		Offset:  offset,
		Limit:   limit,
		HasMore: offset+count < total,
	}
}

// SummaryPage is one window of message summaries plus the filtered total.
type SummaryPage struct {
	Page
	Messages []MessageSummary
}

// MessagePage is one window of full messages plus the filtered total.
type MessagePage struct {
	Page
	Messages []Message
}

// ReadResult is one entry of a batch read: either a decoded message or a
// per-id failure. Exactly one of the two fields is set.
type ReadResult struct {
	Message *Message
	Err     *ReadError
}

// ReadError reports why one id in a batch read failed.
type ReadError struct {
	ID     int64
	Reason string
}

// ResultRow is the outcome for one id of a bulk operation. NewID equals
// OldID when the operation failed or does not reissue ids. Err is empty on
// success.
type ResultRow struct {
	OldID int64
	NewID int64
	Err   string
}

// OpResult aggregates a mutating operation. For bulk operations Rows holds
// one entry per requested id and SuccessCount+ErrorCount == Total.
type OpResult struct {
	Success      bool
	Message      string
	Total        int
	SuccessCount int
	ErrorCount   int
	Rows         []ResultRow
}
