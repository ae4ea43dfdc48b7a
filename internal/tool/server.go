package tool

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type mailSvc interface {
	listAccountsSvc
	listMailboxesSvc
	listMessagesSvc
	readMessagesSvc
	searchMessagesSvc
	moveMessagesSvc
	setStatusSvc
	manageMailboxesSvc
}

// NewServer creates an MCP server with Apple Mail tools.
func NewServer(svc mailSvc) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "apple-mail", Version: "v1.0.0"}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_accounts",
		Description: "List all mail accounts configured in Apple Mail",
	}, NewListAccounts(svc).ListAccounts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_mailboxes",
		Description: "List mailboxes (folders) for a specific mail account",
	}, NewListMailboxes(svc).ListMailboxes)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_messages",
		Description: "List messages in a mailbox with optional filtering, pagination and body content",
	}, NewListMessages(svc).ListMessages)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "read_messages",
		Description: "Read the full content of one or more messages by id",
	}, NewReadMessages(svc).ReadMessages)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_messages",
		Description: "Search messages in a mailbox by sender and/or subject substring",
	}, NewSearchMessages(svc).SearchMessages)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "move_messages",
		Description: "Move one or more messages to another mailbox (ids change after moving)",
	}, NewMoveMessages(svc).MoveMessages)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "set_messages_status",
		Description: "Set the read and/or flagged status for one or more messages",
	}, NewSetStatus(svc).SetMessagesStatus)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_mailbox",
		Description: "Create a new mailbox in an account, optionally nested under a parent",
	}, NewManageMailboxes(svc).CreateMailbox)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "rename_mailbox",
		Description: "Rename an existing mailbox",
	}, NewManageMailboxes(svc).RenameMailbox)

	return server
}
