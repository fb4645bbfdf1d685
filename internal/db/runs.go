package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Run statuses.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// SearchRun is one pipeline execution.
type SearchRun struct {
	ID         uuid.UUID  `json:"id"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Status     string     `json:"status"`
	JobsFound  int        `json:"jobs_found"`
	Matches    int        `json:"matches"`
	Error      *string    `json:"error,omitempty"`
}

// CreateRun records the start of a pipeline run.
func (db *DB) CreateRun(ctx context.Context, id uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO search_runs (id, status) VALUES ($1, $2)`,
		id, RunStatusRunning,
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// CompleteRun marks a run finished with its result counts.
func (db *DB) CompleteRun(ctx context.Context, id uuid.UUID, status string, jobsFound, matches int, runErr error) error {
	var errMsg *string
	if runErr != nil {
		s := runErr.Error()
		errMsg = &s
	}
	_, err := db.pool.Exec(ctx,
		`UPDATE search_runs
		 SET status = $1, jobs_found = $2, matches = $3, error = $4, finished_at = NOW()
		 WHERE id = $5`,
		status, jobsFound, matches, errMsg, id,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// LatestRun returns the most recently started run, or nil when none exist.
func (db *DB) LatestRun(ctx context.Context) (*SearchRun, error) {
	var run SearchRun
	err := db.pool.QueryRow(ctx,
		`SELECT id, started_at, finished_at, status, jobs_found, matches, error
		 FROM search_runs ORDER BY started_at DESC LIMIT 1`,
	).Scan(&run.ID, &run.StartedAt, &run.FinishedAt, &run.Status,
		&run.JobsFound, &run.Matches, &run.Error)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}
	return &run, nil
}
