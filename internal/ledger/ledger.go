// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger records extraction runs in a SQLite database: when each
// run happened, which model it read, and every layer file it wrote. The
// history makes append-mode re-runs visible before they concatenate
// output a second time.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/lenet-extract/pkg/types"
)

// RunStatus is the final state of a recorded run.
type RunStatus string

const (
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// Run is one extraction run and the files it wrote.
type Run struct {
	ID        int64              `json:"id" yaml:"id"`
	StartedAt time.Time          `json:"started_at" yaml:"started_at"`
	Input     string             `json:"input" yaml:"input"`
	Mode      types.WriteMode    `json:"mode" yaml:"mode"`
	Status    RunStatus          `json:"status" yaml:"status"`
	Error     string             `json:"error,omitempty" yaml:"error,omitempty"`
	Outputs   []types.OutputFile `json:"outputs" yaml:"outputs"`
}

// Ledger manages the run history database.
type Ledger struct {
	db *sql.DB
}

// Open opens or creates the ledger database at path, creating parent
// directories and the schema as needed.
func Open(path string) (*Ledger, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	l := &Ledger{db: db}
	if err := l.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return l, nil
}

// Close releases the database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

func (l *Ledger) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			input TEXT NOT NULL,
			mode TEXT NOT NULL,
			status TEXT NOT NULL,
			error TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS outputs (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			path TEXT NOT NULL,
			slot INTEGER NOT NULL,
			kind TEXT NOT NULL,
			lines INTEGER NOT NULL,
			bytes INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_outputs_path ON outputs(path)`,
		`CREATE INDEX IF NOT EXISTS idx_outputs_run_id ON outputs(run_id)`,
	}

	for _, stmt := range statements {
		if _, err := l.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RecordRun stores run and its outputs in one transaction and returns the
// assigned run ID.
func (l *Ledger) RecordRun(ctx context.Context, run Run) (int64, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (started_at, input, mode, status, error) VALUES (?, ?, ?, ?, ?)`,
		run.StartedAt.UTC().Format(time.RFC3339Nano), run.Input, string(run.Mode),
		string(run.Status), run.Error,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO outputs (run_id, path, slot, kind, lines, bytes) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, o := range run.Outputs {
		if _, err := stmt.ExecContext(ctx, id, o.Path, o.Slot, string(o.Kind), o.Lines, o.Bytes); err != nil {
			return 0, fmt.Errorf("inserting output %s: %w", o.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return id, nil
}

// Runs returns the most recent runs, newest first, with their outputs.
// A limit of zero or less returns every run.
func (l *Ledger) Runs(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, started_at, input, mode, status, COALESCE(error, '') FROM runs ORDER BY id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var startedAt, mode, status string
		if err := rows.Scan(&r.ID, &startedAt, &r.Input, &mode, &status, &r.Error); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
		r.Mode = types.WriteMode(mode)
		r.Status = RunStatus(status)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	for i := range runs {
		outputs, err := l.outputs(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Outputs = outputs
	}
	return runs, nil
}

func (l *Ledger) outputs(ctx context.Context, runID int64) ([]types.OutputFile, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT path, slot, kind, lines, bytes FROM outputs WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying outputs for run %d: %w", runID, err)
	}
	defer rows.Close()

	var outputs []types.OutputFile
	for rows.Next() {
		var o types.OutputFile
		var kind string
		if err := rows.Scan(&o.Path, &o.Slot, &kind, &o.Lines, &o.Bytes); err != nil {
			return nil, fmt.Errorf("scanning output: %w", err)
		}
		o.Kind = types.ParamKind(kind)
		outputs = append(outputs, o)
	}
	return outputs, rows.Err()
}

// Appends returns how many recorded runs wrote to path.
func (l *Ledger) Appends(ctx context.Context, path string) (int, error) {
	var n int
	err := l.db.QueryRowContext(ctx,
		`SELECT count(DISTINCT run_id) FROM outputs WHERE path = ?`, path,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting writes to %s: %w", path, err)
	}
	return n, nil
}
