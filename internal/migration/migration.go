package migration

import (
	"context"

	"github.com/jmoiron/sqlx"

	"brandintel/internal/errors"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createMarketStudiesTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create market_studies table")
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}

	return nil
}

func (r *MigrationRunner) createMarketStudiesTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS market_studies (
			strategy_id TEXT PRIMARY KEY,
			brand_name TEXT NOT NULL DEFAULT '',
			sector TEXT NOT NULL DEFAULT '',
			competitors JSONB NOT NULL DEFAULT '[]'::jsonb,
			status TEXT NOT NULL DEFAULT 'collecting',
			source_statuses JSONB NOT NULL DEFAULT '{}'::jsonb,
			raw_data JSONB NOT NULL DEFAULT '{}'::jsonb,
			manual_notes TEXT,
			internal_context TEXT,
			synthesis JSONB,
			synthesized_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_market_studies_status
		ON market_studies (status)`)
	return err
}
