package app

import (
	"context"

	"unitestats/domain/stats"
	"unitestats/internal"
	"unitestats/ports"
)

// StatsEnricher joins raw counters against the cached catalog
type StatsEnricher struct {
	catalog ports.CatalogProvider
	logger  *internal.Logger
}

// NewStatsEnricher creates an enricher reading the catalog from provider
func NewStatsEnricher(provider ports.CatalogProvider, logger *internal.Logger) *StatsEnricher {
	if logger == nil {
		logger = internal.NopLogger()
	}
	return &StatsEnricher{catalog: provider, logger: logger.With("StatsEnricher")}
}

// Enrich waits for the catalog, then joins, rates and sorts raw. A catalog
// failure is returned as is and nothing is enriched. Every diagnostic is
// logged at WARN and returned in the result.
func (e *StatsEnricher) Enrich(ctx context.Context, raw []stats.RawStatRecord) (*stats.EnrichResult, error) {
	cat, err := e.catalog.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	result := stats.Enrich(cat, raw)
	for _, d := range result.Diagnostics {
		e.logger.Warn("%s: %s", d.Kind, d.Message)
	}

	return &result, nil
}
