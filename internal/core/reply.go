// ABOUTME: Helpers around a single generation call: prompt cue, reply extraction, wrapping
// ABOUTME: Turns raw model output into the text stored back into the window
package core

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// ReplyCue is appended to the rendered context so the model continues as the bot
const ReplyCue = "\nBot:"

// BuildPrompt renders the window and appends the reply cue
func BuildPrompt(w *ConversationWindow, systemPrompt string) string {
	return w.RenderPrompt(systemPrompt) + ReplyCue
}

// ExtractReply returns the newly generated part of output. Backends that
// echo the prompt return prompt+continuation; anything else falls back to
// the last line of the output.
func ExtractReply(prompt, output string) string {
	if strings.HasPrefix(output, prompt) {
		return strings.TrimSpace(output[len(prompt):])
	}
	output = strings.ReplaceAll(strings.TrimSpace(output), "\r\n", "\n")
	lines := strings.Split(output, "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

// FormatReply collapses whitespace and wraps the reply at width columns.
// A width <= 0 disables wrapping.
func FormatReply(reply string, width int) string {
	reply = strings.Join(strings.Fields(reply), " ")
	if width <= 0 || reply == "" {
		return reply
	}
	return ansi.Wrap(reply, width, "")
}
