// Package db provides optional PostgreSQL persistence for pipeline runs and
// their artifacts. The filesystem partitions remain the source of truth;
// the database is a queryable history across collection dates.
package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Schema creates the tables this package needs. Safe to run repeatedly.
const Schema = `
CREATE TABLE IF NOT EXISTS leadgen_runs (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    collection_date DATE NOT NULL,
    status TEXT NOT NULL DEFAULT 'running',
    diagnostic TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    completed_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS leadgen_artifacts (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    run_id UUID NOT NULL REFERENCES leadgen_runs(id) ON DELETE CASCADE,
    stage TEXT NOT NULL,
    content JSONB,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (run_id, stage)
);
`

// EnsureSchema creates the runs and artifacts tables if they do not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// Run represents one pipeline execution record
type Run struct {
	ID             uuid.UUID  `json:"id"`
	CollectionDate string     `json:"collection_date"`
	Status         string     `json:"status"`
	Diagnostic     string     `json:"diagnostic,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

// CreateRun creates a new pipeline run record and returns its ID
func (db *DB) CreateRun(ctx context.Context, collectionDate string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO leadgen_runs (collection_date, status)
		 VALUES ($1, 'running')
		 RETURNING id`,
		collectionDate,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// CompleteRun marks a pipeline run as completed or failed
func (db *DB) CompleteRun(ctx context.Context, runID uuid.UUID, status, diagnostic string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE leadgen_runs SET status = $1, diagnostic = NULLIF($2, ''), completed_at = NOW() WHERE id = $3`,
		status, diagnostic, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// SaveArtifact stores a JSON artifact for a pipeline run, one per stage
func (db *DB) SaveArtifact(ctx context.Context, runID uuid.UUID, stage string, content any) error {
	jsonBytes, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("failed to marshal artifact: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO leadgen_artifacts (run_id, stage, content)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (run_id, stage) DO UPDATE SET content = $3, created_at = NOW()`,
		runID, stage, jsonBytes,
	)
	if err != nil {
		return fmt.Errorf("failed to save artifact %s: %w", stage, err)
	}
	return nil
}

// GetArtifact retrieves a JSON artifact by run ID and stage
func (db *DB) GetArtifact(ctx context.Context, runID uuid.UUID, stage string) ([]byte, error) {
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT content FROM leadgen_artifacts WHERE run_id = $1 AND stage = $2`,
		runID, stage,
	).Scan(&content)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get artifact %s: %w", stage, err)
	}
	return content, nil
}

// GetRun retrieves a pipeline run by ID
func (db *DB) GetRun(ctx context.Context, runID uuid.UUID) (*Run, error) {
	var run Run
	err := db.pool.QueryRow(ctx,
		`SELECT id, collection_date::text, status, COALESCE(diagnostic, ''), created_at, completed_at
		 FROM leadgen_runs WHERE id = $1`,
		runID,
	).Scan(&run.ID, &run.CollectionDate, &run.Status, &run.Diagnostic, &run.CreatedAt, &run.CompletedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// ListRuns retrieves recent pipeline runs, newest first
func (db *DB) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, collection_date::text, status, COALESCE(diagnostic, ''), created_at, completed_at
		 FROM leadgen_runs ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.CollectionDate, &run.Status, &run.Diagnostic, &run.CreatedAt, &run.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, nil
}
