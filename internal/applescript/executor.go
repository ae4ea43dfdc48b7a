package applescript

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds script execution unless the caller chooses a longer
// window for content-heavy operations.
const DefaultTimeout = 30 * time.Second

const defaultBin = "/usr/bin/osascript"

// Error is a bridge failure: the osascript process exited non-zero or the
// timeout elapsed. Lookup failures (unknown account, mailbox or message id)
// also surface here because the generated script raises inside osascript.
type Error struct {
	Msg string
}

func (e *Error) Error() string { return e.Msg }

// Executor runs AppleScript programs via the osascript binary.
type Executor struct {
	// Bin overrides the osascript path; empty means /usr/bin/osascript.
	Bin string
}

// Run executes the script and returns its trimmed stdout. Non-zero exit maps
// to an *Error carrying the trimmed stderr (or a generic message when stderr
// is empty); an elapsed timeout maps to an *Error naming the duration. The
// subprocess is reaped on every path, including timeout.
func (e *Executor) Run(ctx context.Context, script Script, timeout time.Duration) (string, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	bin := e.Bin
	if bin == "" {
		bin = defaultBin
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "-e", string(script))
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			log.Printf("AppleScript timed out after %s", timeout)
			return "", &Error{Msg: fmt.Sprintf("script timed out after %s", timeout)}
		}

		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = "unknown AppleScript error"
		}
		log.Printf("AppleScript failed: %s", msg)
		return "", &Error{Msg: msg}
	}

	output := strings.TrimSpace(stdout.String())
	log.Printf("AppleScript result: %s", truncateForLog(output, 500))

	return output, nil
}

func truncateForLog(s string, limit int) string {
	if s == "" {
		return "(empty)"
	}
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
