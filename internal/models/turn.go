// ABOUTME: Turn represents a single message recorded in the conversation window
// ABOUTME: Carries the speaker tag and the trimmed message text
package models

import (
	"fmt"
	"strings"
)

// Speaker identifies who produced a turn
type Speaker string

const (
	// SpeakerUser marks text typed by the person chatting
	SpeakerUser Speaker = "user"

	// SpeakerAssistant marks text produced by the model
	SpeakerAssistant Speaker = "assistant"
)

// Label returns the prefix used when the turn is rendered into a prompt
func (s Speaker) Label() string {
	if s == SpeakerUser {
		return "User"
	}
	return "Bot"
}

// Turn represents a single conversation turn
type Turn struct {
	Speaker Speaker `json:"speaker"`
	Text    string  `json:"text"`
}

// NewTurn creates a Turn with surrounding whitespace removed from text.
// Empty text is allowed.
func NewTurn(speaker Speaker, text string) Turn {
	return Turn{
		Speaker: speaker,
		Text:    strings.TrimSpace(text),
	}
}

// Line renders the turn as a single prompt line
func (t Turn) Line() string {
	return fmt.Sprintf("%s: %s", t.Speaker.Label(), t.Text)
}
