package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mehdishayek-png/ai-job-bot/internal/types"
)

// MatchRecord is a stored match row.
type MatchRecord struct {
	DedupeKey string               `json:"dedupe_key"`
	RunID     uuid.UUID            `json:"run_id"`
	Job       types.JobPosting     `json:"job"`
	Score     int                  `json:"score"`
	Breakdown types.ScoreBreakdown `json:"breakdown"`
	Pinned    bool                 `json:"pinned"`
	FirstSeen time.Time            `json:"first_seen"`
	LastSeen  time.Time            `json:"last_seen"`
}

// NewMatchRecord converts a scored match into its stored form.
func NewMatchRecord(runID uuid.UUID, m types.MatchResult) MatchRecord {
	return MatchRecord{
		DedupeKey: m.Key(),
		RunID:     runID,
		Job:       m.Job,
		Score:     m.TotalScore,
		Breakdown: m.Breakdown,
		Pinned:    m.Pinned,
	}
}

// UpsertMatch inserts or refreshes a match. A re-seen posting keeps its
// first_seen timestamp and its pinned flag; score and details follow the
// latest run.
func (db *DB) UpsertMatch(ctx context.Context, rec MatchRecord) error {
	breakdown, err := json.Marshal(rec.Breakdown)
	if err != nil {
		return fmt.Errorf("failed to marshal score breakdown: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO matches (dedupe_key, run_id, title, company, location, summary,
		                      apply_url, source, posted_at, score, breakdown)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (dedupe_key) DO UPDATE SET
		   run_id = $2, title = $3, company = $4, location = $5, summary = $6,
		   apply_url = $7, source = $8, posted_at = $9, score = $10,
		   breakdown = $11, last_seen = NOW()`,
		rec.DedupeKey, rec.RunID, rec.Job.Title, rec.Job.Company, rec.Job.Location,
		rec.Job.Summary, rec.Job.ApplyURL, rec.Job.Source, rec.Job.PostedDate,
		rec.Score, breakdown,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert match %s: %w", rec.DedupeKey, err)
	}
	return nil
}

// ListMatches returns stored matches, pinned first then by score.
func (db *DB) ListMatches(ctx context.Context, limit int) ([]MatchRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.pool.Query(ctx,
		`SELECT dedupe_key, run_id, title, company, location, summary, apply_url,
		        source, posted_at, score, breakdown, pinned, first_seen, last_seen
		 FROM matches
		 ORDER BY pinned DESC, score DESC, last_seen DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	var records []MatchRecord
	for rows.Next() {
		rec, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read matches: %w", err)
	}
	return records, nil
}

// GetMatch returns one match by dedupe key, or nil when absent.
func (db *DB) GetMatch(ctx context.Context, dedupeKey string) (*MatchRecord, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT dedupe_key, run_id, title, company, location, summary, apply_url,
		        source, posted_at, score, breakdown, pinned, first_seen, last_seen
		 FROM matches WHERE dedupe_key = $1`,
		dedupeKey,
	)
	rec, err := scanMatch(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// SetPinned flips the pin flag on a match. It reports whether a row matched.
func (db *DB) SetPinned(ctx context.Context, dedupeKey string, pinned bool) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`UPDATE matches SET pinned = $1 WHERE dedupe_key = $2`,
		pinned, dedupeKey,
	)
	if err != nil {
		return false, fmt.Errorf("failed to set pin on %s: %w", dedupeKey, err)
	}
	return tag.RowsAffected() > 0, nil
}

// PinnedKeys returns the dedupe keys of all pinned matches.
func (db *DB) PinnedKeys(ctx context.Context) (map[string]bool, error) {
	rows, err := db.pool.Query(ctx, `SELECT dedupe_key FROM matches WHERE pinned`)
	if err != nil {
		return nil, fmt.Errorf("failed to list pinned matches: %w", err)
	}
	defer rows.Close()

	keys := make(map[string]bool)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan pinned key: %w", err)
		}
		keys[key] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read pinned keys: %w", err)
	}
	return keys, nil
}

func scanMatch(row pgx.Row) (MatchRecord, error) {
	var rec MatchRecord
	var breakdownJSON []byte
	err := row.Scan(&rec.DedupeKey, &rec.RunID, &rec.Job.Title, &rec.Job.Company,
		&rec.Job.Location, &rec.Job.Summary, &rec.Job.ApplyURL, &rec.Job.Source,
		&rec.Job.PostedDate, &rec.Score, &breakdownJSON, &rec.Pinned,
		&rec.FirstSeen, &rec.LastSeen)
	if err != nil {
		if err == pgx.ErrNoRows {
			return rec, err
		}
		return rec, fmt.Errorf("failed to scan match: %w", err)
	}
	if breakdownJSON != nil {
		_ = json.Unmarshal(breakdownJSON, &rec.Breakdown)
	}
	return rec, nil
}
