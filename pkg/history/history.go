// Package history optionally records completed chat exchanges to a local
// SQLite database. Recording is write-behind: it never affects the
// in-memory transcript, which is still cleared on demand and discarded at
// exit.
package history

import (
	"context"
	"time"
)

// Exchange is one completed user/assistant round trip.
type Exchange struct {
	SessionID string
	Seq       int
	Prompt    string
	Response  string
	CreatedAt time.Time
}

// Session identifies one recorded conversation.
type Session struct {
	ID        string
	Model     string
	StartedAt time.Time
}

// Recorder persists chat sessions and their exchanges.
type Recorder interface {
	// Begin opens a new session for the given model tag and returns its id.
	Begin(ctx context.Context, model string) (string, error)

	// Record appends one exchange to its session.
	Record(ctx context.Context, ex Exchange) error

	// Exchanges returns the recorded exchanges for a session in order.
	Exchanges(ctx context.Context, sessionID string) ([]Exchange, error)

	// Sessions returns all recorded sessions, most recent first.
	Sessions(ctx context.Context) ([]Session, error)

	// Close releases the underlying store.
	Close() error
}
