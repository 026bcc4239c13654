// Package sanitize trims hallucinated continuation text from raw model
// output before it is displayed or fed back into the transcript.
package sanitize

import "strings"

const (
	// humanMarker signals the model has started inventing the next human
	// turn.
	humanMarker = "Human:"

	// sectionBreak is a blank-line boundary after which generations tend to
	// drift off-conversation.
	sectionBreak = "\n\n"
)

// Clean truncates raw generated text at conversation-boundary markers and
// trims surrounding whitespace. Marker truncation applies first, then the
// blank-line break on the remainder. This is a best-effort heuristic:
// malformed output can still leak artifacts, and no retry is attempted.
func Clean(raw string) string {
	s := raw

	if idx := strings.Index(s, humanMarker); idx >= 0 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	if idx := strings.Index(s, sectionBreak); idx >= 0 {
		s = s[:idx]
	}

	return strings.TrimSpace(s)
}
