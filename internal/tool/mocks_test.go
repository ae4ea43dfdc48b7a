package tool_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/lucastalder/apple-mail-mcp/internal/mail"
)

type mailSvcMock struct {
	ListAccountsFunc            func(ctx context.Context) ([]mail.Account, error)
	ListMailboxesFunc           func(ctx context.Context, accountName string, includeNested bool) ([]mail.Mailbox, error)
	ListMessagesFunc            func(ctx context.Context, q mail.ListQuery) (*mail.SummaryPage, error)
	ListMessagesWithContentFunc func(ctx context.Context, q mail.ListQuery) (*mail.MessagePage, error)
	ReadMessagesFunc            func(ctx context.Context, accountName, mailboxPath string, messageIDs []int64) ([]mail.ReadResult, error)
	SearchMessagesFunc          func(ctx context.Context, accountName, mailboxPath, senderContains, subjectContains string, limit, offset int) (*mail.SummaryPage, error)
	MoveMessagesFunc            func(ctx context.Context, accountName, mailboxPath string, messageIDs []int64, destinationMailbox string) (*mail.OpResult, error)
	SetMessagesStatusFunc       func(ctx context.Context, accountName, mailboxPath string, messageIDs []int64, readStatus, flaggedStatus *bool) (*mail.OpResult, error)
	CreateMailboxFunc           func(ctx context.Context, accountName, mailboxName, parentMailbox string) (*mail.OpResult, error)
	RenameMailboxFunc           func(ctx context.Context, accountName, mailboxPath, newName string) (*mail.OpResult, error)
}

func (m *mailSvcMock) ListAccounts(ctx context.Context) ([]mail.Account, error) {
	return m.ListAccountsFunc(ctx)
}

func (m *mailSvcMock) ListMailboxes(ctx context.Context, accountName string, includeNested bool) ([]mail.Mailbox, error) {
	return m.ListMailboxesFunc(ctx, accountName, includeNested)
}

func (m *mailSvcMock) ListMessages(ctx context.Context, q mail.ListQuery) (*mail.SummaryPage, error) {
	return m.ListMessagesFunc(ctx, q)
}

func (m *mailSvcMock) ListMessagesWithContent(ctx context.Context, q mail.ListQuery) (*mail.MessagePage, error) {
	return m.ListMessagesWithContentFunc(ctx, q)
}

func (m *mailSvcMock) ReadMessages(ctx context.Context, accountName, mailboxPath string, messageIDs []int64) ([]mail.ReadResult, error) {
	return m.ReadMessagesFunc(ctx, accountName, mailboxPath, messageIDs)
}

func (m *mailSvcMock) SearchMessages(ctx context.Context, accountName, mailboxPath, senderContains, subjectContains string, limit, offset int) (*mail.SummaryPage, error) {
	return m.SearchMessagesFunc(ctx, accountName, mailboxPath, senderContains, subjectContains, limit, offset)
}

func (m *mailSvcMock) MoveMessages(ctx context.Context, accountName, mailboxPath string, messageIDs []int64, destinationMailbox string) (*mail.OpResult, error) {
	return m.MoveMessagesFunc(ctx, accountName, mailboxPath, messageIDs, destinationMailbox)
}

func (m *mailSvcMock) SetMessagesStatus(ctx context.Context, accountName, mailboxPath string, messageIDs []int64, readStatus, flaggedStatus *bool) (*mail.OpResult, error) {
	return m.SetMessagesStatusFunc(ctx, accountName, mailboxPath, messageIDs, readStatus, flaggedStatus)
}

func (m *mailSvcMock) CreateMailbox(ctx context.Context, accountName, mailboxName, parentMailbox string) (*mail.OpResult, error) {
	return m.CreateMailboxFunc(ctx, accountName, mailboxName, parentMailbox)
}

func (m *mailSvcMock) RenameMailbox(ctx context.Context, accountName, mailboxPath, newName string) (*mail.OpResult, error) {
	return m.RenameMailboxFunc(ctx, accountName, mailboxPath, newName)
}

type testSession struct {
	ctx    context.Context
	client *mcp.ClientSession
	server *mcp.ServerSession
}

func (s *testSession) Close() {
	s.client.Close()
	s.server.Close()
}

func newTestSession(t *testing.T, server *mcp.Server) *testSession {
	t.Helper()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client"}, nil)
	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	ctx := context.Background()

	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	clientSession, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	return &testSession{ctx: ctx, client: clientSession, server: serverSession}
}

// callTool invokes one tool and decodes the structured response. Handlers
// never signal transport-level errors, so IsError is always false here.
func callTool[T any](t *testing.T, s *testSession, name string, args any) T {
	t.Helper()

	result, err := s.client.CallTool(s.ctx, &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	require.False(t, result.IsError, "tool %s must not raise: %v", name, result.Content)
	require.NotEmpty(t, result.Content)

	var response T
	require.NoError(t, json.Unmarshal(
		[]byte(result.Content[0].(*mcp.TextContent).Text),
		&response,
	))
	return response
}
