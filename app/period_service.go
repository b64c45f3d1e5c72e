package app

import (
	"context"
	"fmt"
	"sync/atomic"

	"unitestats/domain/core"
	"unitestats/domain/daterange"
	"unitestats/domain/stats"
	"unitestats/internal"
	apperrors "unitestats/internal/errors"
	"unitestats/ports"

	"golang.org/x/sync/errgroup"
)

// PeriodStatsService answers stats queries from stored daily aggregates.
// It is the stats source the enrichment pipeline consumes.
type PeriodStatsService struct {
	store       ports.DailyResultStore
	policy      *daterange.Policy
	concurrency int
	logger      *internal.Logger
}

// NewPeriodStatsService creates the service; concurrency bounds parallel day reads
func NewPeriodStatsService(store ports.DailyResultStore, policy *daterange.Policy, concurrency int, logger *internal.Logger) *PeriodStatsService {
	if concurrency <= 0 {
		concurrency = 1
	}
	if logger == nil {
		logger = internal.NopLogger()
	}
	return &PeriodStatsService{
		store:       store,
		policy:      policy,
		concurrency: concurrency,
		logger:      logger.With("PeriodStats"),
	}
}

// Stats resolves raw start/end parameters (defaulting missing ones) and
// returns the merged counters for that range
func (s *PeriodStatsService) Stats(ctx context.Context, start, end string) (*stats.StatsResponse, error) {
	r, err := s.policy.Resolve(start, end)
	if err != nil {
		return nil, apperrors.ValidationError("invalid date range", err)
	}
	return s.collect(ctx, r)
}

// FetchStats implements ports.StatsSource for an already-built range
func (s *PeriodStatsService) FetchStats(ctx context.Context, r daterange.Range) (*stats.StatsResponse, error) {
	if err := s.policy.Validate(r); err != nil {
		return nil, apperrors.ValidationError("invalid date range", err)
	}
	return s.collect(ctx, r)
}

// collect loads every day of r and merges them in date order. Days without
// an aggregate are skipped, as are days whose read fails, unless every day
// failed.
func (s *PeriodStatsService) collect(ctx context.Context, r daterange.Range) (*stats.StatsResponse, error) {
	days := r.Days()
	results := make([]*stats.DailyResult, len(days))
	var failed atomic.Int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, day := range days {
		g.Go(func() error {
			res, err := s.store.GetDailyResult(gctx, day)
			switch {
			case err == nil:
				results[i] = res
			case core.IsNotFoundError(err):
				s.logger.Debug("no aggregate for %s", day)
			case gctx.Err() != nil:
				return gctx.Err()
			default:
				failed.Add(1)
				s.logger.Warn("skipping %s: %v", day, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(days) > 0 && int(failed.Load()) == len(days) {
		return nil, apperrors.DatabaseError("failed to load daily aggregates",
			fmt.Errorf("all %d days of %s failed", len(days), r))
	}

	total, merged := stats.MergeDaily(results)
	return &stats.StatsResponse{
		NumberOfGames:    total,
		StartDate:        r.Start,
		EndDate:          r.End,
		ResultPerPokemon: merged,
	}, nil
}
