// ABOUTME: MCP tool definitions and registration for the slidechat server
// ABOUTME: Exposes one conversation window to MCP clients as three tools
package mcp

import (
	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/harper/slidechat/internal/chat"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, session *chat.Session, logger *log.Logger) *Handlers {
	handlers := NewHandlers(session, logger)

	// 1. chat - send a message and get the bot reply
	server.AddTool(mcp.Tool{
		Name:        "chat",
		Description: "Send a user message to the chatbot and return its reply. The bot remembers the most recent turns of this conversation.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"message": map[string]interface{}{
					"type":        "string",
					"description": "User message to send",
				},
			},
			Required: []string{"message"},
		},
	}, handlers.Chat)

	// 2. clear_conversation - forget the retained turns
	server.AddTool(mcp.Tool{
		Name:        "clear_conversation",
		Description: "Forget all remembered turns. The window size is unchanged.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ClearConversation)

	// 3. get_context - show what the model currently sees
	server.AddTool(mcp.Tool{
		Name:        "get_context",
		Description: "Return the system prompt and remembered turns exactly as they are sent to the model.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.GetContext)

	return handlers
}
