// ABOUTME: ConversationWindow keeps the most recent user/bot turns in a ring buffer
// ABOUTME: Renders the retained history plus a system prompt into a model prompt
package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/harper/slidechat/internal/models"
)

// ErrInvalidCapacity is returned when a window is created with capacity <= 0
var ErrInvalidCapacity = errors.New("window capacity must be positive")

// ConversationWindow is a fixed-size history of turns. Capacity counts
// user+assistant pairs, so at most 2*capacity turns are stored. When full,
// adding a turn evicts the oldest one regardless of speaker.
//
// A window is owned by a single session and is not safe for concurrent use.
type ConversationWindow struct {
	capacity int
	buf      []models.Turn
	head     int // index of the oldest turn
	size     int
}

// NewConversationWindow creates a window retaining capacity turn pairs
func NewConversationWindow(capacity int) (*ConversationWindow, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidCapacity, capacity)
	}
	return &ConversationWindow{
		capacity: capacity,
		buf:      make([]models.Turn, 2*capacity),
	}, nil
}

// Capacity returns the number of turn pairs retained
func (w *ConversationWindow) Capacity() int {
	return w.capacity
}

// Len returns the number of turns currently stored
func (w *ConversationWindow) Len() int {
	return w.size
}

// AddUser records a user message
func (w *ConversationWindow) AddUser(text string) {
	w.push(models.NewTurn(models.SpeakerUser, text))
}

// AddBot records an assistant reply
func (w *ConversationWindow) AddBot(text string) {
	w.push(models.NewTurn(models.SpeakerAssistant, text))
}

func (w *ConversationWindow) push(turn models.Turn) {
	if w.size == len(w.buf) {
		// Full: overwrite the oldest slot and advance head.
		w.buf[w.head] = turn
		w.head = (w.head + 1) % len(w.buf)
		return
	}
	w.buf[(w.head+w.size)%len(w.buf)] = turn
	w.size++
}

// Turns returns a copy of the stored turns, oldest first
func (w *ConversationWindow) Turns() []models.Turn {
	turns := make([]models.Turn, 0, w.size)
	for i := 0; i < w.size; i++ {
		turns = append(turns, w.buf[(w.head+i)%len(w.buf)])
	}
	return turns
}

// RenderPrompt joins the system prompt (when non-blank) and one line per
// stored turn with "\n". There is no trailing newline, and an empty window
// without a system prompt renders as "".
func (w *ConversationWindow) RenderPrompt(systemPrompt string) string {
	lines := make([]string, 0, w.size+1)
	if sp := strings.TrimSpace(systemPrompt); sp != "" {
		lines = append(lines, sp)
	}
	for i := 0; i < w.size; i++ {
		lines = append(lines, w.buf[(w.head+i)%len(w.buf)].Line())
	}
	return strings.Join(lines, "\n")
}

// Clear drops all stored turns. Capacity is unchanged.
func (w *ConversationWindow) Clear() {
	clear(w.buf)
	w.head = 0
	w.size = 0
}

// String returns a debug representation of the window
func (w *ConversationWindow) String() string {
	parts := make([]string, 0, w.size)
	for _, t := range w.Turns() {
		parts = append(parts, fmt.Sprintf("(%s, %q)", t.Speaker, t.Text))
	}
	return fmt.Sprintf("ConversationWindow(capacity=%d, turns=[%s])", w.capacity, strings.Join(parts, ", "))
}
