package ports

import (
	"context"
	"time"

	"unitestats/domain/core"
	"unitestats/domain/daterange"
	"unitestats/domain/stats"
)

// StatsSource returns raw per-subject counters for a validated range
type StatsSource interface {
	FetchStats(ctx context.Context, r daterange.Range) (*stats.StatsResponse, error)
}

// DailyResultStore persists per-day aggregates
type DailyResultStore interface {
	// GetDailyResult returns core.ErrDailyResultNotFound when the day has no aggregate
	GetDailyResult(ctx context.Context, date core.Date) (*stats.DailyResult, error)

	// PutDailyResult inserts or replaces the aggregate for result.Date
	PutDailyResult(ctx context.Context, result *stats.DailyResult) error
}

// MatchReader lists raw match participation records
type MatchReader interface {
	// ListMatches returns records with from <= started_at < to
	ListMatches(ctx context.Context, from, to time.Time) ([]stats.MatchRecord, error)
}
