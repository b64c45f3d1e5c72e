package ports

import (
	"context"

	"unitestats/domain/catalog"
)

// CatalogSource fetches the full reference catalog in one call
type CatalogSource interface {
	// FetchCatalog returns the catalog records as published by the source
	FetchCatalog(ctx context.Context) ([]catalog.Record, error)
}

// CatalogProvider hands out the normalized catalog indexed by subject id.
// Implementations may block until the catalog is available.
type CatalogProvider interface {
	Catalog(ctx context.Context) (map[string]catalog.Record, error)
}
