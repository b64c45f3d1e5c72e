package migration

import (
	"context"
	"database/sql"

	"unitestats/internal"
	"unitestats/internal/errors"

	"github.com/jmoiron/sqlx"
)

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
	logger  *internal.Logger
}

// NewRunner creates a new migration runner
func NewRunner(logger *internal.Logger) *MigrationRunner {
	if logger == nil {
		logger = internal.NopLogger()
	}
	return &MigrationRunner{
		version: "1.1.0",
		logger:  logger.With("Migration"),
	}
}

// Run executes all database migrations in the correct order. Every statement
// is idempotent so Run is safe on an already migrated database.
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createMatchRecordsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create match_records table")
	}

	if err := r.createDailyResultsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create daily_results table")
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}

	r.logger.Info("schema at version %s", r.version)
	return nil
}

func (r *MigrationRunner) createMatchRecordsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS match_records (
			id BIGSERIAL PRIMARY KEY,
			match_id TEXT NOT NULL,
			pokemon TEXT NOT NULL,
			winlose SMALLINT NOT NULL CHECK (winlose IN (0, 1)),
			started_at TIMESTAMP WITH TIME ZONE NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createDailyResultsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS daily_results (
			aggregated_date DATE PRIMARY KEY,
			number_of_games INTEGER NOT NULL DEFAULT 0,
			result_per_pokemon JSONB NOT NULL DEFAULT '[]'::jsonb,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

// createIndexes adds lookup indexes only. match_records carries no
// uniqueness: a subject may appear more than once in a match and every row
// counts toward the daily aggregate.
func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	// schema 1.0.0 made (match_id, pokemon) unique
	if err := r.dropUniqueMatchPokemon(ctx, db); err != nil {
		return err
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_match_records_started_at ON match_records(started_at)",
		"CREATE INDEX IF NOT EXISTS idx_match_records_match_id ON match_records(match_id)",
		"CREATE INDEX IF NOT EXISTS idx_match_records_match_pokemon ON match_records(match_id, pokemon)",
	}

	for _, idxSQL := range indexes {
		if _, err := db.ExecContext(ctx, idxSQL); err != nil {
			// lookup indexes do not change results
			r.logger.Warn("failed to create index: %v", err)
		}
	}

	return nil
}

// dropUniqueMatchPokemon removes idx_match_records_match_pokemon when an
// earlier schema created it as a unique index
func (r *MigrationRunner) dropUniqueMatchPokemon(ctx context.Context, db *sqlx.DB) error {
	var unique bool
	err := db.GetContext(ctx, &unique, `
		SELECT i.indisunique
		FROM pg_index i
		JOIN pg_class c ON c.oid = i.indexrelid
		WHERE c.relname = 'idx_match_records_match_pokemon'
	`)
	if err == sql.ErrNoRows || (err == nil && !unique) {
		return nil
	}
	if err != nil {
		return err
	}

	r.logger.Info("dropping unique index idx_match_records_match_pokemon")
	_, err = db.ExecContext(ctx, "DROP INDEX idx_match_records_match_pokemon")
	return err
}
