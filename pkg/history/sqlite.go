package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteRecorder implements Recorder on a local SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
}

var _ Recorder = (*SQLiteRecorder)(nil)

// NewSQLiteRecorder opens (or creates) the history database at the given
// path, ensuring the parent directory exists. The path can be ":memory:"
// for an in-memory database.
func NewSQLiteRecorder(path string) (*SQLiteRecorder, error) {
	dsn := path
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating history directory %s: %w", dir, err)
			}
		}
		dsn = path + "?_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening history db at %s: %w", path, err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteRecorder{db: db}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			model TEXT NOT NULL,
			started_at INTEGER NOT NULL DEFAULT (unixepoch())
		);

		CREATE TABLE IF NOT EXISTS exchanges (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL REFERENCES sessions(id),
			seq INTEGER NOT NULL,
			prompt TEXT NOT NULL,
			response TEXT NOT NULL,
			created_at INTEGER NOT NULL DEFAULT (unixepoch()),
			UNIQUE(session_id, seq)
		);
		CREATE INDEX IF NOT EXISTS idx_exchanges_session ON exchanges(session_id);
	`)
	if err != nil {
		return fmt.Errorf("initializing history schema: %w", err)
	}
	return nil
}

// Begin opens a new session and returns its id.
func (r *SQLiteRecorder) Begin(ctx context.Context, model string) (string, error) {
	id := uuid.NewString()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, model, started_at) VALUES (?, ?, ?)`,
		id, model, time.Now().Unix(),
	)
	if err != nil {
		return "", fmt.Errorf("beginning session: %w", err)
	}

	return id, nil
}

// Record appends one exchange to its session.
func (r *SQLiteRecorder) Record(ctx context.Context, ex Exchange) error {
	createdAt := ex.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO exchanges (session_id, seq, prompt, response, created_at) VALUES (?, ?, ?, ?, ?)`,
		ex.SessionID, ex.Seq, ex.Prompt, ex.Response, createdAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("recording exchange: %w", err)
	}

	return nil
}

// Exchanges returns the recorded exchanges for a session in sequence order.
func (r *SQLiteRecorder) Exchanges(ctx context.Context, sessionID string) ([]Exchange, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT session_id, seq, prompt, response, created_at FROM exchanges
		 WHERE session_id = ? ORDER BY seq`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying exchanges: %w", err)
	}
	defer rows.Close()

	var out []Exchange
	for rows.Next() {
		var ex Exchange
		var createdAt int64
		if err := rows.Scan(&ex.SessionID, &ex.Seq, &ex.Prompt, &ex.Response, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning exchange: %w", err)
		}
		ex.CreatedAt = time.Unix(createdAt, 0)
		out = append(out, ex)
	}

	return out, rows.Err()
}

// Sessions returns all recorded sessions, most recent first.
func (r *SQLiteRecorder) Sessions(ctx context.Context) ([]Session, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, model, started_at FROM sessions ORDER BY started_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		var s Session
		var startedAt int64
		if err := rows.Scan(&s.ID, &s.Model, &startedAt); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		s.StartedAt = time.Unix(startedAt, 0)
		out = append(out, s)
	}

	return out, rows.Err()
}

// Close closes the underlying database.
func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}
