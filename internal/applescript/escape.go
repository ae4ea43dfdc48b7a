// Package applescript builds and executes AppleScript programs that drive
// Mail.app, and defines the delimiter scheme their output is encoded with.
package applescript

import "strings"

// Output delimiters. ASCII control characters are used because visible
// separators (commas, pipes, "|||") collide with real subject/body/sender
// text; control characters never appear in mail content and need no escaping
// of their own, only correct splitting.
const (
	// FieldSep separates fields within one summary record (one record per line).
	FieldSep = "\x1e"
	// UnitSep separates fields within a full-message block.
	UnitSep = "\x1f"
	// GroupSep separates full-message blocks in a bulk response.
	GroupSep = "\x1d"

	// TotalPrefix precedes the filtered total count on the first line of
	// paginated listing output.
	TotalPrefix = "TOTAL:"
)

var escaper = strings.NewReplacer(
	// Escaping backslash together with the rest in one single-pass
	// replacer means backslashes introduced by the other substitutions
	// are never escaped twice.
	`\`, `\\`,
	`"`, `\"`,
	"\t", `\t`,
	"\n", `\n`,
	"\r", `\r`,
)

// Escape makes a string safe for interpolation inside a double-quoted
// AppleScript string literal. Every user- or store-supplied string (account
// names, mailbox paths, search terms, new names) must pass through here
// before it reaches a script template; skipping it is script injection.
func Escape(value string) string {
	return escaper.Replace(value)
}
