// Package postgres stores recommendation run history. The store is optional
// and strictly off the strategy hot path: write failures are reported to the
// caller, which logs and continues.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/vidpulse/vidpulse/internal/recommend"
)

const schema = `
CREATE TABLE IF NOT EXISTS strategy_runs (
	id          BIGSERIAL PRIMARY KEY,
	strategy    TEXT        NOT NULL,
	queries     INT         NOT NULL,
	results     INT         NOT NULL,
	duration_ms BIGINT      NOT NULL,
	started_at  TIMESTAMPTZ NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// RunRow is the stored form of one strategy run.
type RunRow struct {
	ID         int64     `db:"id"`
	Strategy   string    `db:"strategy"`
	Queries    int       `db:"queries"`
	Results    int       `db:"results"`
	DurationMS int64     `db:"duration_ms"`
	StartedAt  time.Time `db:"started_at"`
	CreatedAt  time.Time `db:"created_at"`
}

// RunsRepo persists strategy runs to PostgreSQL. It satisfies
// recommend.RunSink.
type RunsRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

// Connect opens a PostgreSQL connection pool for the run store.
func Connect(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return db, nil
}

// NewRunsRepo creates a run repository over the given pool.
func NewRunsRepo(db *sqlx.DB, timeout time.Duration) *RunsRepo {
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &RunsRepo{db: db, timeout: timeout}
}

// EnsureSchema creates the strategy_runs table when absent.
func (r *RunsRepo) EnsureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create strategy_runs table: %w", err)
	}
	return nil
}

// RecordRun inserts one completed strategy run.
func (r *RunsRepo) RecordRun(ctx context.Context, run recommend.Run) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		INSERT INTO strategy_runs (strategy, queries, results, duration_ms, started_at)
		VALUES ($1, $2, $3, $4, $5)`

	if _, err := r.db.ExecContext(ctx, query,
		run.Strategy, run.Queries, run.Results,
		run.Duration.Milliseconds(), run.StartedAt); err != nil {
		return fmt.Errorf("failed to insert strategy run: %w", err)
	}
	return nil
}

// Recent returns the latest runs, newest first.
func (r *RunsRepo) Recent(ctx context.Context, limit int) ([]RunRow, error) {
	if limit <= 0 {
		limit = 20
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT id, strategy, queries, results, duration_ms, started_at, created_at
		FROM strategy_runs
		ORDER BY started_at DESC
		LIMIT $1`

	var rows []RunRow
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("failed to query strategy runs: %w", err)
	}
	return rows, nil
}
