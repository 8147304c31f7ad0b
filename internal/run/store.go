// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package run coordinates one end-to-end pipeline execution and persists
// run lifecycle state in a SQLite registry so past runs can be listed and
// their artifacts located.
package run

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/persona-engine/pkg/types"
)

const dbFile = "runs.db"

// Store manages the run registry SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the run registry at dataDir/runs.db, creating
// the schema if it does not exist.
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening run registry: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			owner TEXT NOT NULL,
			status TEXT NOT NULL,
			questions_per_client INTEGER NOT NULL,
			persona_count INTEGER NOT NULL DEFAULT 0,
			output_dir TEXT NOT NULL,
			error_message TEXT NOT NULL DEFAULT '',
			analysis_path TEXT NOT NULL DEFAULT '',
			analysis_completed INTEGER NOT NULL DEFAULT 0,
			started_at TEXT NOT NULL,
			completed_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_owner ON runs(owner)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// CreateRun inserts a pending run and returns its registry ID.
func (s *Store) CreateRun(ctx context.Context, owner, outputDir string, questionsPerClient int) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (owner, status, questions_per_client, output_dir, started_at)
		 VALUES (?, ?, ?, ?, ?)`,
		owner, types.RunPending, questionsPerClient, outputDir,
		time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}
	return id, nil
}

// UpdateStatus moves a run to status. Terminal statuses stamp completed_at;
// errMsg is stored for failed runs and ignored otherwise.
func (s *Store) UpdateStatus(ctx context.Context, id int64, status types.RunStatus, errMsg string) error {
	if status != types.RunFailed {
		errMsg = ""
	}
	var completedAt any
	if status.Terminal() {
		completedAt = time.Now().UTC().Format(time.RFC3339Nano)
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, error_message = ?, completed_at = ? WHERE id = ?`,
		status, errMsg, completedAt, id)
	if err != nil {
		return fmt.Errorf("updating run %d: %w", id, err)
	}
	return nil
}

// SetPersonaCount records how many personas produced artifacts.
func (s *Store) SetPersonaCount(ctx context.Context, id int64, count int) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET persona_count = ? WHERE id = ?`, count, id)
	if err != nil {
		return fmt.Errorf("updating run %d persona count: %w", id, err)
	}
	return nil
}

// CompleteAnalysis records the analysis report path and marks the analysis
// stage finished. The run status itself is unaffected: analysis completion
// lags behind run completion.
func (s *Store) CompleteAnalysis(ctx context.Context, id int64, analysisPath string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET analysis_path = ?, analysis_completed = 1 WHERE id = ?`,
		analysisPath, id)
	if err != nil {
		return fmt.Errorf("recording analysis for run %d: %w", id, err)
	}
	return nil
}

// GetRun loads one run by ID.
func (s *Store) GetRun(ctx context.Context, id int64) (types.RunRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, owner, status, questions_per_client, persona_count, output_dir,
		        error_message, analysis_path, analysis_completed, started_at, completed_at
		 FROM runs WHERE id = ?`, id)
	rec, err := scanRun(row)
	if err == sql.ErrNoRows {
		return types.RunRecord{}, fmt.Errorf("run %d not found", id)
	}
	if err != nil {
		return types.RunRecord{}, fmt.Errorf("loading run %d: %w", id, err)
	}
	return rec, nil
}

// ListRuns returns runs newest-first, optionally filtered by owner.
func (s *Store) ListRuns(ctx context.Context, owner string) ([]types.RunRecord, error) {
	query := `SELECT id, owner, status, questions_per_client, persona_count, output_dir,
	                 error_message, analysis_path, analysis_completed, started_at, completed_at
	          FROM runs`
	args := []any{}
	if owner != "" {
		query += ` WHERE owner = ?`
		args = append(args, owner)
	}
	query += ` ORDER BY id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []types.RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, rec)
	}
	return runs, rows.Err()
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRun(row scannable) (types.RunRecord, error) {
	var (
		rec         types.RunRecord
		startedAt   string
		completedAt sql.NullString
	)
	err := row.Scan(&rec.ID, &rec.Owner, &rec.Status, &rec.QuestionsPerClient,
		&rec.PersonaCount, &rec.OutputDir, &rec.ErrorMessage, &rec.AnalysisPath,
		&rec.AnalysisCompleted, &startedAt, &completedAt)
	if err != nil {
		return types.RunRecord{}, err
	}
	rec.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
	if completedAt.Valid {
		rec.CompletedAt, _ = time.Parse(time.RFC3339Nano, completedAt.String)
	}
	return rec, nil
}
