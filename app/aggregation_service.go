package app

import (
	"context"
	"fmt"
	"time"

	"unitestats/domain/core"
	"unitestats/domain/daterange"
	"unitestats/domain/stats"
	"unitestats/internal"
	apperrors "unitestats/internal/errors"
	"unitestats/ports"
)

// AggregationService is the daily batch: it folds one JST day of match
// records into a stored aggregate
type AggregationService struct {
	matches ports.MatchReader
	store   ports.DailyResultStore
	policy  *daterange.Policy
	logger  *internal.Logger
}

// NewAggregationService creates the batch service
func NewAggregationService(matches ports.MatchReader, store ports.DailyResultStore, policy *daterange.Policy, logger *internal.Logger) *AggregationService {
	if logger == nil {
		logger = internal.NopLogger()
	}
	return &AggregationService{
		matches: matches,
		store:   store,
		policy:  policy,
		logger:  logger.With("Aggregation"),
	}
}

// TargetDate parses an explicit YYYY-MM-DD override, or returns yesterday (JST)
func (s *AggregationService) TargetDate(override string) (core.Date, error) {
	if override == "" {
		return s.policy.Yesterday(), nil
	}
	d, err := core.ParseDate(override)
	if err != nil {
		return core.Date{}, apperrors.ValidationError("invalid target date", err)
	}
	return d, nil
}

// AggregateDay reads the day's matches, aggregates them and upserts the
// result. A day without matches stores nothing and returns core.ErrNoMatches.
func (s *AggregationService) AggregateDay(ctx context.Context, date core.Date) (*stats.DailyResult, error) {
	s.logger.Info("aggregating %s (%s - %s)", date, date.Start().Format(time.RFC3339), date.End().Format(time.RFC3339))

	matches, err := s.matches.ListMatches(ctx, date.Start(), date.End())
	if err != nil {
		return nil, apperrors.DatabaseError("failed to list match records", err)
	}
	if len(matches) == 0 {
		s.logger.Info("no match records for %s", date)
		return nil, fmt.Errorf("%w: %s", core.ErrNoMatches, date)
	}

	result := stats.AggregateMatches(date, matches)
	if err := s.store.PutDailyResult(ctx, &result); err != nil {
		return nil, apperrors.DatabaseError("failed to store daily result", err)
	}

	s.logger.Info("aggregated %s: %d records, %d games, %d subjects",
		date, len(matches), result.NumberOfGames, len(result.ResultPerPokemon))
	return &result, nil
}
