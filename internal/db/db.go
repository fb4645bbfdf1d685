// Package db provides PostgreSQL persistence for search runs and matches.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool.
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool and verifies it with a ping.
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool.
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Migrate creates the schema if it does not exist. The tool runs it on
// startup; there is no separate migration step for a single-user database.
func (db *DB) Migrate(ctx context.Context) error {
	_, err := db.pool.Exec(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS search_runs (
	id          UUID PRIMARY KEY,
	started_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	finished_at TIMESTAMPTZ,
	status      TEXT NOT NULL DEFAULT 'running',
	jobs_found  INT NOT NULL DEFAULT 0,
	matches     INT NOT NULL DEFAULT 0,
	error       TEXT
);

CREATE TABLE IF NOT EXISTS matches (
	dedupe_key   TEXT PRIMARY KEY,
	run_id       UUID REFERENCES search_runs(id),
	title        TEXT NOT NULL,
	company      TEXT NOT NULL,
	location     TEXT,
	summary      TEXT,
	apply_url    TEXT,
	source       TEXT,
	posted_at    TIMESTAMPTZ,
	score        INT NOT NULL,
	breakdown    JSONB,
	pinned       BOOLEAN NOT NULL DEFAULT FALSE,
	first_seen   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	last_seen    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS matches_score_idx ON matches (pinned DESC, score DESC);
`
