// ABOUTME: MCP command starts a Model Context Protocol server
// ABOUTME: Exposes one sliding-window chat session to LLM agents via stdio
package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/harper/slidechat/internal/mcp"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	flags := &chatFlags{}

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs slidechat as an MCP (Model Context Protocol) server over stdio.
LLM agents can send messages to the bot, clear its memory, and read
the context window it would send to the model.

All chat flags apply to the served session. Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMCP(cmd, flags)
		},
		Example: `  # Start MCP server (typically called by an agent host)
  slidechat mcp --max-turns 5

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "slidechat": {
  #       "command": "slidechat",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	flags.register(cmd.Flags())
	_ = cmd.Flags().MarkHidden("wrap")
	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, flags *chatFlags) error {
	logger := newLogger(cmd)

	cfg, err := resolveConfig(cmd, flags, logger)
	if err != nil {
		return err
	}
	// Replies go back as JSON, not to a terminal
	cfg.WrapWidth = 0

	session, err := newSession(cfg, logger)
	if err != nil {
		return err
	}

	server := mcpserver.NewMCPServer(
		"slidechat",
		versionInfo.Version,
	)
	mcp.RegisterTools(server, session, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("MCP server starting on stdio", "model", cfg.Model, "max_turns", cfg.MaxTurns)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}
	return nil
}
