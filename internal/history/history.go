// Package history keeps a local record of every item ytsave has processed.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"ytsave/internal/batch"
	"ytsave/internal/dirs"
)

// Status of a recorded item.
const (
	StatusDone   = "done"
	StatusFailed = "failed"
)

// Entry is one recorded item outcome.
type Entry struct {
	RunID      string
	Index      int
	URL        string
	Kind       string
	Template   string
	Status     string
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Store is a sqlite-backed history.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	if err := dirs.Ensure(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	// One writer; sqlite serializes anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := configure(db); err != nil {
		db.Close()
		return nil, err
	}
	if err := createSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func configure(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			idx INTEGER NOT NULL,
			url TEXT NOT NULL,
			kind TEXT NOT NULL,
			template TEXT,
			status TEXT NOT NULL,
			error TEXT,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_items_run ON items(run_id);
		CREATE INDEX IF NOT EXISTS idx_items_finished ON items(finished_at);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("create history schema: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record implements batch.Recorder.
func (s *Store) Record(ctx context.Context, runID string, r batch.ItemResult) error {
	e := Entry{
		RunID:      runID,
		Index:      r.Index,
		URL:        r.URL,
		Kind:       string(r.Kind),
		Template:   r.Template,
		Status:     StatusDone,
		StartedAt:  r.Started,
		FinishedAt: r.Started.Add(r.Duration),
	}
	if r.Err != nil {
		e.Status = StatusFailed
		e.Error = r.Err.Error()
	}
	return s.Insert(ctx, e)
}

// Insert stores e.
func (s *Store) Insert(ctx context.Context, e Entry) error {
	const query = `
		INSERT INTO items (run_id, idx, url, kind, template, status, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		e.RunID,
		e.Index,
		e.URL,
		e.Kind,
		e.Template,
		e.Status,
		e.Error,
		e.StartedAt.UTC().Format(time.RFC3339Nano),
		e.FinishedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert history entry: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `
		SELECT run_id, idx, url, kind, template, status, error, started_at, finished_at
		FROM items
		ORDER BY id DESC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e                 Entry
			template, errText sql.NullString
			started, finished string
		)
		if err := rows.Scan(&e.RunID, &e.Index, &e.URL, &e.Kind, &template, &e.Status, &errText, &started, &finished); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		e.Template = template.String
		e.Error = errText.String
		if e.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("parse started_at: %w", err)
		}
		if e.FinishedAt, err = time.Parse(time.RFC3339Nano, finished); err != nil {
			return nil, fmt.Errorf("parse finished_at: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
