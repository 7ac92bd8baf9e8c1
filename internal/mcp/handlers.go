// ABOUTME: MCP tool handler implementations for the slidechat server
// ABOUTME: Serializes tool calls onto the single conversation session
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/slidechat/internal/chat"
)

// Handlers contains the handler functions for all MCP tools.
// MCP clients may issue calls concurrently; the session is single-owner,
// so every handler holds mu while touching it.
type Handlers struct {
	mu      sync.Mutex
	session *chat.Session
	logger  *log.Logger
}

// NewHandlers creates handlers for session
func NewHandlers(session *chat.Session, logger *log.Logger) *Handlers {
	if logger == nil {
		logger = log.Default()
	}
	return &Handlers{session: session, logger: logger}
}

type chatResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
	Turns     int    `json:"turns"`
}

// Chat handles the chat tool
func (h *Handlers) Chat(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message, err := request.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError("message argument is required and must be a string"), nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	reply, err := h.session.Send(ctx, message)
	if err != nil {
		h.logger.Warn("chat tool failed", "err", err)
		return mcp.NewToolResultError(fmt.Sprintf("generation failed: %v", err)), nil
	}

	data, err := json.Marshal(chatResponse{
		SessionID: h.session.ID(),
		Reply:     reply,
		Turns:     h.session.Window().Len(),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// ClearConversation handles the clear_conversation tool
func (h *Handlers) ClearConversation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.session.Reset()
	return mcp.NewToolResultText("Conversation cleared"), nil
}

// GetContext handles the get_context tool
func (h *Handlers) GetContext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	text := h.session.Context()
	if text == "" {
		text = "(empty)"
	}
	return mcp.NewToolResultText(text), nil
}
