// Package history keeps a local record of past analyses and chat transcripts
// in SQLite, so verdicts survive the process that produced them.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// schema contains the full database schema. New tables are added here.
const schema = `
CREATE TABLE IF NOT EXISTS analyses (
    id TEXT PRIMARY KEY,
    input_type TEXT NOT NULL CHECK(input_type IN ('text','url','pdf')),
    source TEXT NOT NULL DEFAULT '',
    label TEXT NOT NULL,
    final_prediction TEXT NOT NULL,
    confidence REAL NOT NULL DEFAULT 0,
    verified INTEGER NOT NULL DEFAULT 0,
    context_id TEXT NOT NULL DEFAULT '',
    created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analyses_created ON analyses(created_at);
CREATE INDEX IF NOT EXISTS idx_analyses_context ON analyses(context_id);

CREATE TABLE IF NOT EXISTS chat_messages (
    id TEXT PRIMARY KEY,
    context_id TEXT NOT NULL DEFAULT '',
    role TEXT NOT NULL CHECK(role IN ('user','assistant')),
    content TEXT NOT NULL,
    created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_messages_context ON chat_messages(context_id);
`

// Analysis is one recorded prediction.
type Analysis struct {
	ID              string    `json:"id"`
	InputType       string    `json:"input_type"`
	Source          string    `json:"source,omitempty"`
	Label           string    `json:"label"`
	FinalPrediction string    `json:"final_prediction"`
	Confidence      float64   `json:"confidence"`
	Verified        bool      `json:"verified"`
	ContextID       string    `json:"context_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// ChatRecord is one persisted chat turn.
type ChatRecord struct {
	ID        string    `json:"id"`
	ContextID string    `json:"context_id,omitempty"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Store manages the local history database.
type Store struct {
	db *sql.DB
}

// Open creates or opens the history database at the given path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// OpenMemory creates an in-memory history database (useful for testing).
func OpenMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// SaveAnalysis records an analysis outcome.
func (s *Store) SaveAnalysis(ctx context.Context, a Analysis) (*Analysis, error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO analyses (id, input_type, source, label, final_prediction, confidence, verified, context_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.InputType, a.Source, a.Label, a.FinalPrediction, a.Confidence, a.Verified, a.ContextID, a.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting analysis: %w", err)
	}
	return &a, nil
}

// ListRecent returns the most recent analyses, newest first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]Analysis, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, input_type, source, label, final_prediction, confidence, verified, context_id, created_at
		 FROM analyses ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying analyses: %w", err)
	}
	defer rows.Close()

	var out []Analysis
	for rows.Next() {
		var a Analysis
		if err := rows.Scan(&a.ID, &a.InputType, &a.Source, &a.Label, &a.FinalPrediction, &a.Confidence, &a.Verified, &a.ContextID, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning analysis: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// SaveMessage records one chat turn.
func (s *Store) SaveMessage(ctx context.Context, m ChatRecord) (*ChatRecord, error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_messages (id, context_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.ContextID, m.Role, m.Content, m.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting chat message: %w", err)
	}
	return &m, nil
}

// MessagesForContext returns all persisted turns for a context id, oldest first.
func (s *Store) MessagesForContext(ctx context.Context, contextID string) ([]ChatRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, context_id, role, content, created_at
		 FROM chat_messages WHERE context_id = ? ORDER BY created_at ASC`, contextID)
	if err != nil {
		return nil, fmt.Errorf("querying chat messages: %w", err)
	}
	defer rows.Close()

	var out []ChatRecord
	for rows.Next() {
		var m ChatRecord
		if err := rows.Scan(&m.ID, &m.ContextID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning chat message: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// CountAnalyses returns the total number of recorded analyses.
func (s *Store) CountAnalyses(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM analyses`).Scan(&count)
	return count, err
}
