// Package gmail classifies mail accounts as Gmail-like and carries the
// constants for the two-phase move workaround Gmail's label semantics need.
package gmail

import "strings"

var serverPatterns = []string{"gmail", "google", "imap.gmail.com", "googlemail"}

var addressSuffixes = []string{"@gmail.com", "@googlemail.com"}

// ArchiveCandidates are the mailbox names tried in order when locating the
// account's archive during a two-phase move. Localized variants cover the
// common Mail.app locales.
var ArchiveCandidates = []string{
	"Archive",
	"Archiv",
	"Archivo",
	"[Gmail]/All Mail",
	"[Gmail]/Todos",
	"Alle Nachrichten",
}

// IsGmailServer reports whether an IMAP/SMTP server name looks like Gmail.
func IsGmailServer(serverName string) bool {
	if serverName == "" {
		return false
	}
	lower := strings.ToLower(serverName)
	for _, p := range serverPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// IsGmailAddress reports whether an email address belongs to Gmail.
func IsGmailAddress(email string) bool {
	if email == "" {
		return false
	}
	lower := strings.ToLower(email)
	for _, s := range addressSuffixes {
		if strings.HasSuffix(lower, s) {
			return true
		}
	}
	return false
}

// IsGmailAccount classifies an account from its server name or address. It
// is a pure function over metadata already in hand; classification is
// recomputed where needed instead of being cached, so reconfiguring an
// account mid-session cannot leave a stale result behind.
func IsGmailAccount(serverName, email string) bool {
	return IsGmailServer(serverName) || IsGmailAddress(email)
}

// MoveWarning explains the label behavior a direct move has on Gmail
// accounts when no archive mailbox could be found.
func MoveWarning() string {
	return "Note: Gmail uses labels instead of folders. When moving messages from Inbox " +
		"via AppleScript, the Inbox label may not be removed, causing the message to " +
		"appear in both locations. This is a known Mail.app/AppleScript limitation."
}
