package postgres

import (
	"context"
	"fmt"
	"time"

	"unitestats/domain/stats"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// MatchRepositoryImpl reads and bulk-loads match_records
type MatchRepositoryImpl struct {
	db *sqlx.DB
}

// NewMatchRepository creates a new PostgreSQL match repository
func NewMatchRepository(db *sqlx.DB) *MatchRepositoryImpl {
	return &MatchRepositoryImpl{db: db}
}

// ListMatches returns the records with started_at in [from, to)
func (r *MatchRepositoryImpl) ListMatches(ctx context.Context, from, to time.Time) ([]stats.MatchRecord, error) {
	records := []stats.MatchRecord{}
	err := r.db.SelectContext(ctx, &records, `
		SELECT match_id, pokemon, winlose, started_at
		FROM match_records
		WHERE started_at >= $1 AND started_at < $2
		ORDER BY started_at, match_id
	`, from, to)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ImportMatches bulk-loads records with COPY inside one transaction and
// returns the number of rows written
func (r *MatchRepositoryImpl) ImportMatches(ctx context.Context, records []stats.MatchRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("match_records", "match_id", "pokemon", "winlose", "started_at"))
	if err != nil {
		return 0, fmt.Errorf("prepare copy: %w", err)
	}

	for _, m := range records {
		if _, err := stmt.ExecContext(ctx, m.MatchID, m.Pokemon, m.WinLose, m.StartedAt); err != nil {
			stmt.Close()
			return 0, fmt.Errorf("copy match %s: %w", m.MatchID, err)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return 0, fmt.Errorf("flush copy: %w", err)
	}
	if err := stmt.Close(); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(records), nil
}
