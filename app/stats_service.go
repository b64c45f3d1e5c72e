package app

import (
	"context"
	"fmt"

	"unitestats/domain/catalog"
	"unitestats/domain/core"
	"unitestats/domain/daterange"
	"unitestats/domain/stats"
	"unitestats/internal"
	apperrors "unitestats/internal/errors"
	"unitestats/ports"
)

// QueryRequest asks for enriched stats over a range, narrowed to a category.
// A zero Range means the policy's default range; an empty Category means all.
type QueryRequest struct {
	Range    daterange.Range
	Category catalog.Category
}

// QueryResult is what consumers render
type QueryResult struct {
	QueryID     core.ID                    `json:"query_id"`
	Range       daterange.Range            `json:"range"`
	Category    catalog.Category           `json:"category"`
	TotalGames  int                        `json:"number_of_games"`
	Records     []stats.EnrichedStatRecord `json:"records"`
	Diagnostics []stats.Diagnostic         `json:"diagnostics"`
	Summary     stats.Summary              `json:"summary"`
}

// WindowInfo tells consumers which dates may be picked
type WindowInfo struct {
	Today        core.Date       `json:"today"`
	Window       daterange.Range `json:"window"`
	DefaultRange daterange.Range `json:"default_range"`
}

// StatsService runs the full query pipeline: validate, fetch, enrich, filter
type StatsService struct {
	policy   *daterange.Policy
	source   ports.StatsSource
	enricher *StatsEnricher
	logger   *internal.Logger
}

// NewStatsService wires the pipeline
func NewStatsService(policy *daterange.Policy, source ports.StatsSource, enricher *StatsEnricher, logger *internal.Logger) *StatsService {
	if logger == nil {
		logger = internal.NopLogger()
	}
	return &StatsService{
		policy:   policy,
		source:   source,
		enricher: enricher,
		logger:   logger.With("StatsService"),
	}
}

// Window returns the current validity window and default range
func (s *StatsService) Window() WindowInfo {
	return WindowInfo{
		Today:        s.policy.Today(),
		Window:       s.policy.CurrentWindow(),
		DefaultRange: s.policy.DefaultRange(),
	}
}

// Query fills open range bounds from the default range and validates req
// before any network call, then fetches raw counters, enriches them against
// the catalog and filters by category.
func (s *StatsService) Query(ctx context.Context, req QueryRequest) (*QueryResult, error) {
	r := s.policy.Fill(req.Range)

	window := s.policy.CurrentWindow()
	if !daterange.IsValid(r, window) {
		cause := s.policy.Validate(r)
		if cause == nil {
			cause = fmt.Errorf("%w: %s outside %s", core.ErrInvalidRange, r, window)
		}
		return nil, apperrors.ValidationError("invalid date range", cause)
	}

	category := req.Category
	if category == "" {
		category = catalog.CategoryAll
	}
	if category != catalog.CategoryAll && !category.IsConcrete() {
		return nil, apperrors.ValidationError("invalid category",
			fmt.Errorf("%w: %q", core.ErrUnknownCategory, category))
	}

	queryID := core.NewID()
	s.logger.Debug("query %s: range=%s category=%s", queryID, r, category.Slug())

	resp, err := s.source.FetchStats(ctx, r)
	if err != nil {
		if !apperrors.IsAppError(err) {
			err = apperrors.ExternalServiceError("stats", err)
		}
		s.logger.Error("query %s: stats fetch failed: %v", queryID, err)
		return nil, err
	}

	enriched, err := s.enricher.Enrich(ctx, resp.ResultPerPokemon)
	if err != nil {
		s.logger.Error("query %s: enrichment failed: %v", queryID, err)
		return nil, err
	}

	records := stats.FilterByCategory(enriched.Records, category)

	s.logger.Info("query %s: %d raw, %d enriched, %d after filter, %d dropped",
		queryID, len(resp.ResultPerPokemon), len(enriched.Records), len(records), enriched.Dropped())

	return &QueryResult{
		QueryID:     queryID,
		Range:       r,
		Category:    category,
		TotalGames:  resp.NumberOfGames,
		Records:     records,
		Diagnostics: enriched.Diagnostics,
		Summary:     stats.Summarize(records),
	}, nil
}
