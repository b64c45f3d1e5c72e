package app

import (
	"context"
	"sync"

	"unitestats/domain/catalog"
	"unitestats/internal"
	"unitestats/ports"

	"golang.org/x/sync/singleflight"
)

const catalogFlightKey = "catalog"

// CatalogCache memoizes the reference catalog for its own lifetime.
//
// The first Catalog call fetches from the source; concurrent callers share
// that single in-flight fetch. A successful result is normalized through the
// alias table and kept forever. A failed fetch leaves the cache empty so the
// next call retries.
//
// The shared fetch is detached from any caller's context and always runs to
// completion. A caller whose context ends stops waiting and gets ctx.Err().
//
// Safe for concurrent use. Build one per process and inject it.
type CatalogCache struct {
	source ports.CatalogSource
	logger *internal.Logger

	flight singleflight.Group

	mu      sync.RWMutex
	catalog map[string]catalog.Record
}

// NewCatalogCache creates an empty cache over source
func NewCatalogCache(source ports.CatalogSource, logger *internal.Logger) *CatalogCache {
	if logger == nil {
		logger = internal.NopLogger()
	}
	return &CatalogCache{
		source: source,
		logger: logger.With("CatalogCache"),
	}
}

// Catalog returns the catalog indexed by canonical subject id. The map is
// shared and must not be modified.
func (c *CatalogCache) Catalog(ctx context.Context) (map[string]catalog.Record, error) {
	if cat := c.memoized(); cat != nil {
		return cat, nil
	}

	ch := c.flight.DoChan(catalogFlightKey, func() (interface{}, error) {
		// a flight that finished between memoized() and DoChan already stored the result
		if cat := c.memoized(); cat != nil {
			return cat, nil
		}
		return c.fetch(context.WithoutCancel(ctx))
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(map[string]catalog.Record), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Loaded reports whether the catalog has been fetched successfully
func (c *CatalogCache) Loaded() bool {
	return c.memoized() != nil
}

func (c *CatalogCache) memoized() map[string]catalog.Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.catalog
}

func (c *CatalogCache) fetch(ctx context.Context) (map[string]catalog.Record, error) {
	c.logger.Info("fetching reference catalog")

	records, err := c.source.FetchCatalog(ctx)
	if err != nil {
		c.logger.Error("catalog fetch failed, will retry on next request: %v", err)
		return nil, err
	}

	normalized := catalog.Normalize(records)

	c.mu.Lock()
	c.catalog = normalized
	c.mu.Unlock()

	c.logger.Info("catalog loaded: %d records, %d subjects", len(records), len(normalized))
	return normalized, nil
}
