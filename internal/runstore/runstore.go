// Package runstore persists lint run history so regressions in a corpus can
// be tracked over time.
package runstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/lessonkit/internal/lint"
)

// Run is one recorded lint invocation over the corpus.
type Run struct {
	ID         int64
	StartedAt  time.Time
	Duration   time.Duration
	FilesTotal int
	Errors     int
	Warnings   int
	Issues     []lint.Issue
}

// Store records lint runs and serves the recent history.
type Store interface {
	Append(ctx context.Context, run Run) (int64, error)
	Recent(ctx context.Context, limit int) ([]Run, error)
	Prune(ctx context.Context, keep int) (int64, error)
	Close() error
}

// SQLiteStore implements Store on a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open creates a run store at dbPath. Use ":memory:" for an ephemeral store.
func Open(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS lint_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		files_total INTEGER NOT NULL,
		errors INTEGER NOT NULL,
		warnings INTEGER NOT NULL,
		issues TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_started_at ON lint_runs(started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append records a completed run and returns its assigned id.
func (s *SQLiteStore) Append(ctx context.Context, run Run) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	issuesJSON, err := json.Marshal(run.Issues)
	if err != nil {
		return 0, fmt.Errorf("marshal issues: %w", err)
	}

	startedAt := run.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now()
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO lint_runs (started_at, duration_ms, files_total, errors, warnings, issues) VALUES (?, ?, ?, ?, ?, ?)",
		startedAt.Unix(), run.Duration.Milliseconds(), run.FilesTotal, run.Errors, run.Warnings, issuesJSON,
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns the newest runs, most recent first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, started_at, duration_ms, files_total, errors, warnings, issues FROM lint_runs ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// Prune deletes all but the newest keep runs and returns the number removed.
// keep <= 0 disables pruning.
func (s *SQLiteStore) Prune(ctx context.Context, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"DELETE FROM lint_runs WHERE id NOT IN (SELECT id FROM lint_runs ORDER BY id DESC LIMIT ?)",
		keep,
	)
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return res.RowsAffected()
}

func scanRuns(rows *sql.Rows) ([]Run, error) {
	var runs []Run
	for rows.Next() {
		var r Run
		var startedUnix, durationMS int64
		var issuesJSON []byte

		if err := rows.Scan(&r.ID, &startedUnix, &durationMS, &r.FilesTotal, &r.Errors, &r.Warnings, &issuesJSON); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.StartedAt = time.Unix(startedUnix, 0)
		r.Duration = time.Duration(durationMS) * time.Millisecond

		if len(issuesJSON) > 0 {
			if err := json.Unmarshal(issuesJSON, &r.Issues); err != nil {
				return nil, fmt.Errorf("unmarshal issues: %w", err)
			}
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return runs, nil
}

// RecordResult converts a lint result into a Run and appends it, applying
// the retention policy afterwards.
func (s *SQLiteStore) RecordResult(ctx context.Context, result *lint.Result, started time.Time, keep int) (int64, error) {
	id, err := s.Append(ctx, Run{
		StartedAt:  started,
		Duration:   time.Since(started),
		FilesTotal: result.FilesTotal,
		Errors:     result.ErrorCount(),
		Warnings:   result.WarningCount(),
		Issues:     result.Issues,
	})
	if err != nil {
		return 0, err
	}
	if _, err := s.Prune(ctx, keep); err != nil {
		return id, err
	}
	return id, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
