package migration

import (
	"context"

	"regsim/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations. Every statement is
// idempotent and valid for both PostgreSQL and SQLite.
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
	if err := r.createSimulationsTable(ctx, db); err != nil {
		return errors.DatabaseError("failed to create simulations table", err)
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.DatabaseError("failed to create indexes", err)
	}

	return nil
}

func (r *MigrationRunner) createSimulationsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS simulations (
			id VARCHAR(36) PRIMARY KEY,
			n INTEGER NOT NULL,
			mu DOUBLE PRECISION NOT NULL,
			beta0 DOUBLE PRECISION NOT NULL,
			beta1 DOUBLE PRECISION NOT NULL,
			sigma2 DOUBLE PRECISION NOT NULL,
			s INTEGER NOT NULL,
			observed_slope DOUBLE PRECISION NOT NULL,
			observed_intercept DOUBLE PRECISION NOT NULL,
			observed_data TEXT NOT NULL,
			simulated_slopes TEXT NOT NULL,
			simulated_intercepts TEXT NOT NULL,
			seed BIGINT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_simulations_created_at ON simulations (created_at)
	`)
	return err
}
