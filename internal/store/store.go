// Package store persists classify runs in SQLite so that results can be
// compared across compilations.
package store

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

// DefaultPath is the database location relative to the project root.
const DefaultPath = ".tsluau/runs.db"

// Store wraps the run database.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Open creates or opens the database at path, creating parent directories.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma: %w", err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Store{db: db, dbPath: path}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) DBPath() string {
	return s.dbPath
}

// SaveRun stores run and its decisions in one transaction. A missing run ID
// or start time is filled in; the stored ID is returned.
func (s *Store) SaveRun(ctx context.Context, run Run, decisions []Decision) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	run.Decisions = len(decisions)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, package, started_at, digest, decisions, diagnostics)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.ID, run.Package, run.StartedAt.UnixNano(), run.Digest, run.Decisions, run.Diagnostics); err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO decisions (run_id, file, start_byte, end_byte, kind, name, method)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", fmt.Errorf("preparing decision insert: %w", err)
	}
	defer stmt.Close()
	for _, d := range decisions {
		if _, err := stmt.ExecContext(ctx, run.ID, d.File, d.Start, d.End, d.Kind, d.Name, d.Method); err != nil {
			return "", fmt.Errorf("inserting decision: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return run.ID, nil
}

// Runs lists runs of pkg, newest first. An empty pkg lists every run.
func (s *Store) Runs(ctx context.Context, pkg string) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, package, started_at, COALESCE(digest, ''), decisions, diagnostics
		FROM runs
		WHERE ? = '' OR package = ?
		ORDER BY started_at DESC, id
	`, pkg, pkg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r       Run
			started int64
		)
		if err := rows.Scan(&r.ID, &r.Package, &started, &r.Digest, &r.Decisions, &r.Diagnostics); err != nil {
			return nil, err
		}
		r.StartedAt = time.Unix(0, started)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Decisions returns the decisions of runID ordered by file and offset.
func (s *Store) Decisions(ctx context.Context, runID string) ([]Decision, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT file, start_byte, end_byte, kind, COALESCE(name, ''), method
		FROM decisions
		WHERE run_id = ?
		ORDER BY file, start_byte, end_byte
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Decision
	for rows.Next() {
		var d Decision
		if err := rows.Scan(&d.File, &d.Start, &d.End, &d.Kind, &d.Name, &d.Method); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
