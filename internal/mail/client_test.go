package mail_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucastalder/apple-mail-mcp/internal/applescript"
	"github.com/lucastalder/apple-mail-mcp/internal/mail"
)

type runnerMock struct {
	RunFunc func(ctx context.Context, script applescript.Script, timeout time.Duration) (string, error)

	scripts  []string
	timeouts []time.Duration
}

func (m *runnerMock) Run(ctx context.Context, script applescript.Script, timeout time.Duration) (string, error) {
	m.scripts = append(m.scripts, string(script))
	m.timeouts = append(m.timeouts, timeout)
	return m.RunFunc(ctx, script, timeout)
}

func row(parts ...string) string {
	return strings.Join(parts, applescript.FieldSep)
}

func msgBlock(parts ...string) string {
	return strings.Join(parts, applescript.UnitSep)
}

func TestClientListAccounts(t *testing.T) {
	runner := &runnerMock{
		RunFunc: func(context.Context, applescript.Script, time.Duration) (string, error) {
			return strings.Join([]string{
				row("Work", "me@company.com", "true", "IMAP Account", "imap.company.com"),
				row("Personal", "me@gmail.com", "true", "IMAP Account", "imap.gmail.com"),
			}, "\n"), nil
		},
	}

	accounts, err := mail.NewClient(runner).ListAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.False(t, accounts[0].IsGmail)
	assert.True(t, accounts[1].IsGmail)
}

func TestClientListAccountsBridgeFailure(t *testing.T) {
	runner := &runnerMock{
		RunFunc: func(context.Context, applescript.Script, time.Duration) (string, error) {
			return "", &applescript.Error{Msg: "Mail got an error"}
		},
	}

	_, err := mail.NewClient(runner).ListAccounts(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Mail got an error")
}

func TestClientListMessagesPagination(t *testing.T) {
	runner := &runnerMock{
		RunFunc: func(context.Context, applescript.Script, time.Duration) (string, error) {
			return "TOTAL:3\n" + row("501", "Status report", "boss@corp.com", "Mon, 3 Mar 2025", "false", "false"), nil
		},
	}

	page, err := mail.NewClient(runner).ListMessages(context.Background(), mail.ListQuery{
		AccountName: "Work",
		MailboxPath: "INBOX",
		Limit:       1,
		Offset:      0,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Messages, 1)
	assert.True(t, page.HasMore)
	assert.Equal(t, int64(501), page.Messages[0].ID)
}

func TestClientListMessagesLastPage(t *testing.T) {
	runner := &runnerMock{
		RunFunc: func(context.Context, applescript.Script, time.Duration) (string, error) {
			return "TOTAL:3\n" + row("503", "Last one", "boss@corp.com", "Mon, 3 Mar 2025", "true", "false"), nil
		},
	}

	page, err := mail.NewClient(runner).ListMessages(context.Background(), mail.ListQuery{
		AccountName: "Work",
		MailboxPath: "INBOX",
		Limit:       50,
		Offset:      2,
	})
	require.NoError(t, err)
	assert.False(t, page.HasMore)
	assert.Equal(t, 2, page.Offset)
	assert.Equal(t, 50, page.Limit)
}

func TestClientListMessagesDefaultLimit(t *testing.T) {
	runner := &runnerMock{
		RunFunc: func(context.Context, applescript.Script, time.Duration) (string, error) {
			return "TOTAL:0\n", nil
		},
	}

	page, err := mail.NewClient(runner).ListMessages(context.Background(), mail.ListQuery{
		AccountName: "Work",
		MailboxPath: "INBOX",
		Offset:      -5,
	})
	require.NoError(t, err)
	assert.Equal(t, 50, page.Limit)
	assert.Equal(t, 0, page.Offset)
	assert.Empty(t, page.Messages)
	assert.False(t, page.HasMore)

	require.Len(t, runner.scripts, 1)
	assert.Contains(t, runner.scripts[0], "set endIdx to 0 + 50")
}

func TestClientListMessagesWithContent(t *testing.T) {
	long := strings.Repeat("x", 100)
	runner := &runnerMock{
		RunFunc: func(context.Context, applescript.Script, time.Duration) (string, error) {
			return "TOTAL:2\n" + strings.Join([]string{
				msgBlock("1", "A", "a@x.com", "me@x.com", "", "date", "true", "false", long),
				msgBlock("2", "B", "b@x.com", "me@x.com", "cc@x.com", "date", "false", "true", "tiny"),
			}, applescript.GroupSep), nil
		},
	}

	page, err := mail.NewClient(runner).ListMessagesWithContent(context.Background(), mail.ListQuery{
		AccountName:  "Work",
		MailboxPath:  "INBOX",
		Limit:        10,
		ContentLimit: 100,
	})
	require.NoError(t, err)
	require.Len(t, page.Messages, 2)
	assert.Equal(t, long+"...", page.Messages[0].Content)
	assert.Equal(t, "tiny", page.Messages[1].Content)
	assert.Equal(t, "cc@x.com", page.Messages[1].CC)

	// Content-heavy listings get the long timeout.
	require.Len(t, runner.timeouts, 1)
	assert.Equal(t, 120*time.Second, runner.timeouts[0])
}

func TestClientReadMessageShortResponseIsFatal(t *testing.T) {
	runner := &runnerMock{
		RunFunc: func(context.Context, applescript.Script, time.Duration) (string, error) {
			return msgBlock("55", "Subject", "a@x.com"), nil
		},
	}

	_, err := mail.NewClient(runner).ReadMessage(context.Background(), "Work", "INBOX", 55)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid message response format")
}

func TestClientReadMessages(t *testing.T) {
	runner := &runnerMock{
		RunFunc: func(context.Context, applescript.Script, time.Duration) (string, error) {
			return strings.Join([]string{
				msgBlock("10", "First", "a@x.com", "me@x.com", "", "date", "true", "false", "body"),
				msgBlock("11", "ERROR", "Can’t get message"),
			}, applescript.GroupSep), nil
		},
	}

	results, err := mail.NewClient(runner).ReadMessages(context.Background(), "Work", "INBOX", []int64{10, 11})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.NotNil(t, results[0].Message)
	require.NotNil(t, results[1].Err)
	assert.Equal(t, int64(11), results[1].Err.ID)
}

func TestClientSearchMessages(t *testing.T) {
	runner := &runnerMock{
		RunFunc: func(context.Context, applescript.Script, time.Duration) (string, error) {
			return "TOTAL:1\n" + row("77", "Invoice", "billing@corp.com", "date", "false", "false"), nil
		},
	}

	page, err := mail.NewClient(runner).SearchMessages(context.Background(), "Work", "INBOX", "billing", "Invoice", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Messages, 1)
	assert.False(t, page.HasMore)

	require.Len(t, runner.scripts, 1)
	assert.Contains(t, runner.scripts[0], `sender contains "billing"`)
	assert.Contains(t, runner.scripts[0], `subject contains "Invoice"`)
}

func nonGmailAccountInfo() string {
	return row("me@company.com", "imap.company.com")
}

func gmailAccountInfo() string {
	return row("me@gmail.com", "imap.gmail.com")
}

func TestClientMoveMessagesDirect(t *testing.T) {
	runner := &runnerMock{}
	runner.RunFunc = func(_ context.Context, script applescript.Script, _ time.Duration) (string, error) {
		if strings.Contains(string(script), "return accEmail") {
			return nonGmailAccountInfo(), nil
		}
		return strings.Join([]string{
			row("100", "200", "success"),
			row("101", "101", "error:Can’t get message"),
		}, "\n"), nil
	}

	result, err := mail.NewClient(runner).MoveMessages(context.Background(), "Work", "INBOX", []int64{100, 101, 102}, "Archive")
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 2, result.ErrorCount)
	assert.Equal(t, result.Total, result.SuccessCount+result.ErrorCount)

	// Every requested id appears exactly once, in request order.
	require.Len(t, result.Rows, 3)
	assert.Equal(t, int64(100), result.Rows[0].OldID)
	assert.Equal(t, int64(200), result.Rows[0].NewID)
	assert.Equal(t, int64(101), result.Rows[1].OldID)
	assert.NotEmpty(t, result.Rows[1].Err)
	// Id 102 produced no row at all; it must still fail explicitly.
	assert.Equal(t, int64(102), result.Rows[2].OldID)
	assert.NotEmpty(t, result.Rows[2].Err)
}

func TestClientMoveMessagesGmailTwoPhase(t *testing.T) {
	runner := &runnerMock{}
	runner.RunFunc = func(_ context.Context, script applescript.Script, _ time.Duration) (string, error) {
		s := string(script)
		switch {
		case strings.Contains(s, "return accEmail"):
			return gmailAccountInfo(), nil
		case strings.Contains(s, `return "Archive"`):
			return "Archive", nil
		case strings.Contains(s, `srcMb to mailbox "INBOX"`) && strings.Contains(s, `destMb to mailbox "Archive"`):
			return row("100", "150", "success"), nil
		case strings.Contains(s, `srcMb to mailbox "Archive"`) && strings.Contains(s, `destMb to mailbox "Receipts"`):
			return row("150", "300", "success"), nil
		default:
			return "", fmt.Errorf("unexpected script: %s", s)
		}
	}

	result, err := mail.NewClient(runner).MoveMessages(context.Background(), "Personal", "INBOX", []int64{100}, "Receipts")
	require.NoError(t, err)

	assert.True(t, result.Success)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, int64(100), result.Rows[0].OldID)
	assert.Equal(t, int64(300), result.Rows[0].NewID)
	assert.NotEqual(t, result.Rows[0].OldID, result.Rows[0].NewID)
	assert.Contains(t, result.Message, `via "Archive"`)
}

func TestClientMoveMessagesGmailRollback(t *testing.T) {
	var rolledBack bool
	runner := &runnerMock{}
	runner.RunFunc = func(_ context.Context, script applescript.Script, _ time.Duration) (string, error) {
		s := string(script)
		switch {
		case strings.Contains(s, "return accEmail"):
			return gmailAccountInfo(), nil
		case strings.Contains(s, `return "Archive"`):
			return "Archive", nil
		case strings.Contains(s, `srcMb to mailbox "INBOX"`):
			return row("100", "150", "success"), nil
		case strings.Contains(s, `destMb to mailbox "Receipts"`):
			return "", &applescript.Error{Msg: "Can’t get mailbox"}
		case strings.Contains(s, `srcMb to mailbox "Archive"`) && strings.Contains(s, `destMb to mailbox "INBOX"`):
			rolledBack = true
			return row("150", "160", "success"), nil
		default:
			return "", fmt.Errorf("unexpected script: %s", s)
		}
	}

	result, err := mail.NewClient(runner).MoveMessages(context.Background(), "Personal", "INBOX", []int64{100}, "Receipts")
	require.NoError(t, err)

	assert.True(t, rolledBack)
	assert.False(t, result.Success)
	require.Len(t, result.Rows, 1)
	assert.Contains(t, result.Rows[0].Err, `returned to "INBOX"`)
	assert.Equal(t, int64(160), result.Rows[0].NewID)
}

func TestClientMoveMessagesGmailStranded(t *testing.T) {
	runner := &runnerMock{}
	runner.RunFunc = func(_ context.Context, script applescript.Script, _ time.Duration) (string, error) {
		s := string(script)
		switch {
		case strings.Contains(s, "return accEmail"):
			return gmailAccountInfo(), nil
		case strings.Contains(s, `return "Archive"`):
			return "Archive", nil
		case strings.Contains(s, `srcMb to mailbox "INBOX"`):
			return row("100", "150", "success"), nil
		default:
			// Both the forward move and the rollback fail.
			return "", &applescript.Error{Msg: "Mail got an error"}
		}
	}

	result, err := mail.NewClient(runner).MoveMessages(context.Background(), "Personal", "INBOX", []int64{100}, "Receipts")
	require.NoError(t, err)

	assert.False(t, result.Success)
	require.Len(t, result.Rows, 1)
	assert.Contains(t, result.Rows[0].Err, `stranded in "Archive"`)
	assert.Equal(t, int64(150), result.Rows[0].NewID, "the archive-local id is the last known location")
}

func TestClientMoveMessagesGmailNoArchiveFallsBack(t *testing.T) {
	runner := &runnerMock{}
	runner.RunFunc = func(_ context.Context, script applescript.Script, _ time.Duration) (string, error) {
		s := string(script)
		switch {
		case strings.Contains(s, "return accEmail"):
			return gmailAccountInfo(), nil
		case strings.Contains(s, `mailbox "Archive" of acc`) && strings.Contains(s, `return ""`):
			return "", nil
		default:
			return row("100", "200", "success"), nil
		}
	}

	result, err := mail.NewClient(runner).MoveMessages(context.Background(), "Personal", "INBOX", []int64{100}, "Receipts")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Contains(t, result.Message, "Gmail uses labels", "fallback carries the advisory")
}

func TestClientSetMessagesStatusBothFlags(t *testing.T) {
	boolPtr := func(b bool) *bool { return &b }

	runner := &runnerMock{}
	runner.RunFunc = func(_ context.Context, script applescript.Script, _ time.Duration) (string, error) {
		s := string(script)
		if strings.Contains(s, "set read status") {
			return strings.Join([]string{
				row("10", "10", "success"),
				row("11", "11", "success"),
			}, "\n"), nil
		}
		return strings.Join([]string{
			row("10", "10", "success"),
			row("11", "11", "error:Can’t get message"),
		}, "\n"), nil
	}

	result, err := mail.NewClient(runner).SetMessagesStatus(
		context.Background(), "Work", "INBOX", []int64{10, 11}, boolPtr(true), boolPtr(false))
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 1, result.ErrorCount)
	require.Len(t, result.Rows, 2)
	assert.Empty(t, result.Rows[0].Err)
	assert.Contains(t, result.Rows[1].Err, "Can’t get message")
	assert.Contains(t, result.Message, "marked read")
	assert.Contains(t, result.Message, "unflagged")
}

func TestClientSetMessagesStatusNoChanges(t *testing.T) {
	runner := &runnerMock{
		RunFunc: func(context.Context, applescript.Script, time.Duration) (string, error) {
			return "", fmt.Errorf("must not run any script")
		},
	}

	result, err := mail.NewClient(runner).SetMessagesStatus(context.Background(), "Work", "INBOX", []int64{1}, nil, nil)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "No changes requested", result.Message)
	assert.Empty(t, runner.scripts)
}

func TestClientCreateAndRenameMailbox(t *testing.T) {
	runner := &runnerMock{
		RunFunc: func(context.Context, applescript.Script, time.Duration) (string, error) {
			return "created", nil
		},
	}
	c := mail.NewClient(runner)

	result, err := c.CreateMailbox(context.Background(), "Work", "Receipts", "Finance")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Contains(t, result.Message, `"Finance/Receipts" created`)

	result, err = c.RenameMailbox(context.Background(), "Work", "Old", "New")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Contains(t, result.Message, `renamed to "New"`)
}
