package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"unitestats/domain/core"
	"unitestats/domain/stats"
	"unitestats/ports"

	"github.com/jmoiron/sqlx"
)

// dailyResultRow is the daily_results table shape
type dailyResultRow struct {
	AggregatedDate time.Time   `db:"aggregated_date"`
	NumberOfGames  int         `db:"number_of_games"`
	Results        statRecords `db:"result_per_pokemon"`
	UpdatedAt      time.Time   `db:"updated_at"`
}

// DailyResultRepositoryImpl implements DailyResultStore for PostgreSQL
type DailyResultRepositoryImpl struct {
	db *sqlx.DB
}

// NewDailyResultRepository creates a new PostgreSQL daily result repository
func NewDailyResultRepository(db *sqlx.DB) ports.DailyResultStore {
	return &DailyResultRepositoryImpl{db: db}
}

// GetDailyResult loads the aggregate stored for date
func (r *DailyResultRepositoryImpl) GetDailyResult(ctx context.Context, date core.Date) (*stats.DailyResult, error) {
	var row dailyResultRow
	err := r.db.GetContext(ctx, &row, `
		SELECT aggregated_date, number_of_games, result_per_pokemon, updated_at
		FROM daily_results
		WHERE aggregated_date = $1
	`, date.String())

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", core.ErrDailyResultNotFound, date)
	}
	if err != nil {
		return nil, err
	}

	return &stats.DailyResult{
		// DATE columns come back as midnight UTC; keep the calendar day
		Date:             core.NewDate(row.AggregatedDate.Year(), row.AggregatedDate.Month(), row.AggregatedDate.Day()),
		NumberOfGames:    row.NumberOfGames,
		ResultPerPokemon: []stats.RawStatRecord(row.Results),
	}, nil
}

// PutDailyResult upserts the aggregate for result.Date, so re-running a day replaces it
func (r *DailyResultRepositoryImpl) PutDailyResult(ctx context.Context, result *stats.DailyResult) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO daily_results (aggregated_date, number_of_games, result_per_pokemon, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (aggregated_date) DO UPDATE
		SET number_of_games = EXCLUDED.number_of_games,
			result_per_pokemon = EXCLUDED.result_per_pokemon,
			updated_at = NOW()
	`, result.Date.String(), result.NumberOfGames, statRecords(result.ResultPerPokemon))
	return err
}
