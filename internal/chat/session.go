// ABOUTME: Session ties the conversation window to a generation backend
// ABOUTME: One Send call records the user turn, generates, and records the reply
package chat

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/harper/slidechat/internal/core"
	"github.com/harper/slidechat/internal/llm"
	"github.com/harper/slidechat/internal/models"
)

// Options configures a Session
type Options struct {
	MaxTurns     int
	SystemPrompt string
	Params       models.GenerationParams
	WrapWidth    int
	Logger       *log.Logger
}

// Session is a single conversation. It is not safe for concurrent use.
type Session struct {
	id           string
	window       *core.ConversationWindow
	generator    llm.Generator
	systemPrompt string
	params       models.GenerationParams
	wrapWidth    int
	logger       *log.Logger
}

// NewSession creates a session backed by generator
func NewSession(generator llm.Generator, opts Options) (*Session, error) {
	if generator == nil {
		return nil, fmt.Errorf("generator is required")
	}
	if err := opts.Params.Validate(); err != nil {
		return nil, err
	}
	window, err := core.NewConversationWindow(opts.MaxTurns)
	if err != nil {
		return nil, err
	}

	id := uuid.New().String()
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Session{
		id:           id,
		window:       window,
		generator:    generator,
		systemPrompt: opts.SystemPrompt,
		params:       opts.Params,
		wrapWidth:    opts.WrapWidth,
		logger:       logger.With("session", id[:8]),
	}, nil
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// Window exposes the underlying conversation window
func (s *Session) Window() *core.ConversationWindow {
	return s.window
}

// Send records input, asks the backend for a reply, records and returns it.
// On generation failure the user turn stays in the window.
func (s *Session) Send(ctx context.Context, input string) (string, error) {
	s.window.AddUser(input)
	prompt := core.BuildPrompt(s.window, s.systemPrompt)

	s.logger.Debug("generating reply", "turns", s.window.Len(), "prompt_chars", len(prompt))

	output, err := s.generator.Generate(ctx, prompt, s.params)
	if err != nil {
		return "", fmt.Errorf("generating reply: %w", err)
	}

	reply := core.FormatReply(core.ExtractReply(prompt, output), s.wrapWidth)
	s.window.AddBot(reply)

	s.logger.Debug("reply recorded", "turns", s.window.Len(), "reply_chars", len(reply))
	return reply, nil
}

// Reset forgets the conversation so far
func (s *Session) Reset() {
	s.window.Clear()
	s.logger.Debug("memory cleared")
}

// Context returns the prompt context the next generation would build on,
// without the reply cue
func (s *Session) Context() string {
	return s.window.RenderPrompt(s.systemPrompt)
}
