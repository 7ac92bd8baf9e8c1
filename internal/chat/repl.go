// ABOUTME: Interactive read-eval-print loop for a chat session
// ABOUTME: Handles /exit, /clear, /history, /help and prints styled replies
package chat

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const goodbye = "Exiting chatbot. Goodbye!"

const helpText = `Commands:
  /exit     quit the chat
  /clear    forget the conversation so far
  /history  show the context sent to the model
  /help     show this message`

// REPL runs an interactive chat over a reader and writer
type REPL struct {
	session *Session
	in      io.Reader
	out     io.Writer
	logger  *log.Logger

	userLabel lipgloss.Style
	botLabel  lipgloss.Style
	notice    lipgloss.Style
}

// NewREPL creates a REPL for session reading from in and writing to out
func NewREPL(session *Session, in io.Reader, out io.Writer, logger *log.Logger) *REPL {
	if logger == nil {
		logger = log.Default()
	}
	r := lipgloss.NewRenderer(out)
	return &REPL{
		session:   session,
		in:        in,
		out:       out,
		logger:    logger,
		userLabel: r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		botLabel:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		notice:    r.NewStyle().Faint(true),
	}
}

// Banner prints the startup instructions
func (r *REPL) Banner() {
	fmt.Fprintln(r.out, "Chatbot is ready!")
	fmt.Fprintln(r.out, "Type your message and press Enter.")
	fmt.Fprintln(r.out, r.notice.Render("Use '/exit' to quit or '/clear' to reset memory."))
	fmt.Fprintln(r.out)
}

// Run reads lines until /exit, end of input, or ctx is cancelled.
// Generation errors are reported and the loop continues.
func (r *REPL) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r.in)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		fmt.Fprint(r.out, r.userLabel.Render("User:")+" ")

		var line string
		var ok bool
		select {
		case <-ctx.Done():
			fmt.Fprintln(r.out)
			fmt.Fprintln(r.out, goodbye)
			return nil
		case line, ok = <-lines:
		}

		if !ok {
			fmt.Fprintln(r.out)
			fmt.Fprintln(r.out, goodbye)
			select {
			case err := <-readErr:
				if err != nil {
					return fmt.Errorf("reading input: %w", err)
				}
			default:
			}
			return nil
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "/exit":
			fmt.Fprintln(r.out, goodbye)
			return nil
		case "/clear":
			r.session.Reset()
			fmt.Fprintln(r.out, r.notice.Render("[Memory cleared]"))
			fmt.Fprintln(r.out)
			continue
		case "/history":
			ctxText := r.session.Context()
			if ctxText == "" {
				ctxText = "(empty)"
			}
			fmt.Fprintln(r.out, r.notice.Render(ctxText))
			fmt.Fprintln(r.out)
			continue
		case "/help":
			fmt.Fprintln(r.out, helpText)
			fmt.Fprintln(r.out)
			continue
		}

		reply, err := r.session.Send(ctx, input)
		if err != nil {
			if errors.Is(err, context.Canceled) && ctx.Err() != nil {
				fmt.Fprintln(r.out)
				fmt.Fprintln(r.out, goodbye)
				return nil
			}
			r.logger.Error("generation failed", "err", err)
			continue
		}

		fmt.Fprintf(r.out, "%s %s\n\n", r.botLabel.Render("Bot:"), reply)
	}
}
