// Package history keeps a local SQLite log of pipeline runs.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/opradox/opradox-cli/pkg/runner"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	pipeline    TEXT NOT NULL,
	scenario    TEXT NOT NULL,
	file        TEXT NOT NULL,
	blocks      INTEGER NOT NULL DEFAULT 0,
	actions     TEXT,
	started_at  TEXT NOT NULL,
	duration_ms INTEGER NOT NULL DEFAULT 0,
	status      TEXT NOT NULL,
	summary     TEXT,
	error       TEXT
);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Run statuses
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Entry is one stored run.
type Entry struct {
	ID        string        `json:"id" yaml:"id"`
	Pipeline  string        `json:"pipeline" yaml:"pipeline"`
	Scenario  string        `json:"scenario" yaml:"scenario"`
	File      string        `json:"file" yaml:"file"`
	Blocks    int           `json:"blocks" yaml:"blocks"`
	Actions   string        `json:"actions,omitempty" yaml:"-"`
	StartedAt time.Time     `json:"startedAt" yaml:"started_at"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
	Status    string        `json:"status" yaml:"status"`
	Summary   string        `json:"summary,omitempty" yaml:"summary,omitempty"`
	Error     string        `json:"error,omitempty" yaml:"error,omitempty"`
}

// Store is the run history database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history table: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record implements runner.Recorder.
func (s *Store) Record(ctx context.Context, rec runner.Record) error {
	status, errText := StatusSuccess, ""
	if rec.Err != nil {
		status, errText = StatusFailed, rec.Err.Error()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, pipeline, scenario, file, blocks, actions, started_at, duration_ms, status, summary, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), rec.Pipeline, rec.Scenario, rec.File, rec.Blocks, rec.Actions,
		rec.StartedAt.UTC().Format(timeLayout), rec.Duration.Milliseconds(), status, rec.Summary, errText,
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first. A pipeline filter of ""
// matches every run.
func (s *Store) Recent(ctx context.Context, pipeline string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT id, pipeline, scenario, file, blocks, actions, started_at, duration_ms, status, summary, error
		FROM runs`
	args := []any{}
	if pipeline != "" {
		query += ` WHERE pipeline = ?`
		args = append(args, pipeline)
	}
	query += ` ORDER BY started_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var (
			e                         Entry
			actions, summary, errText sql.NullString
			started                   string
			durationMs                int64
		)
		if err := rows.Scan(&e.ID, &e.Pipeline, &e.Scenario, &e.File, &e.Blocks, &actions,
			&started, &durationMs, &e.Status, &summary, &errText); err != nil {
			return nil, fmt.Errorf("failed to read history row: %w", err)
		}
		e.StartedAt, _ = time.Parse(timeLayout, started)
		e.Duration = time.Duration(durationMs) * time.Millisecond
		e.Actions, e.Summary, e.Error = actions.String, summary.String, errText.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Prune deletes runs older than before and returns how many were removed.
func (s *Store) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE started_at < ?`, before.UTC().Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("failed to prune history: %w", err)
	}
	return res.RowsAffected()
}

var _ runner.Recorder = (*Store)(nil)
