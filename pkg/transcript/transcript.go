// Package transcript holds the in-memory conversation log and renders it
// into the prompt string sent on each inference call.
package transcript

import "strings"

// Role tags one side of the conversation.
type Role string

const (
	// Human is the user side of the conversation.
	Human Role = "Human"

	// Assistant is the model side of the conversation.
	Assistant Role = "Assistant"
)

// Cue is the trailing line that signals the model to produce the next
// assistant turn.
const Cue = "Assistant:"

// Turn is a single utterance with its role tag.
type Turn struct {
	Role    Role
	Content string
}

// Transcript is an ordered record of conversation turns. The zero value is
// an empty transcript ready for use. A Transcript is owned by a single
// session driver and is not safe for concurrent use.
type Transcript struct {
	turns []Turn
}

// New returns an empty transcript.
func New() *Transcript {
	return &Transcript{}
}

// Append adds one turn to the end of the transcript. Any text is accepted
// verbatim.
func (t *Transcript) Append(role Role, content string) {
	t.turns = append(t.turns, Turn{Role: role, Content: content})
}

// Render produces the prompt for the next inference call: one
// "{role}: {content}" line per turn, newline-separated, followed by the
// "Assistant:" cue. An empty transcript renders as the cue alone.
func (t *Transcript) Render() string {
	var b strings.Builder
	for _, turn := range t.turns {
		b.WriteString(string(turn.Role))
		b.WriteString(": ")
		b.WriteString(turn.Content)
		b.WriteString("\n")
	}
	b.WriteString(Cue)
	return b.String()
}

// DropLast removes the most recent turn. Used to roll back a human turn
// whose inference call failed, so the user can retry.
func (t *Transcript) DropLast() {
	if len(t.turns) > 0 {
		t.turns = t.turns[:len(t.turns)-1]
	}
}

// Clear empties the transcript so the next exchange starts a fresh
// conversation.
func (t *Transcript) Clear() {
	t.turns = nil
}

// Len returns the number of turns recorded so far.
func (t *Transcript) Len() int {
	return len(t.turns)
}

// Turns returns a copy of the recorded turns in order.
func (t *Transcript) Turns() []Turn {
	out := make([]Turn, len(t.turns))
	copy(out, t.turns)
	return out
}
