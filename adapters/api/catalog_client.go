package api

import (
	"context"
	"encoding/json"
	"fmt"

	"unitestats/domain/catalog"
	apperrors "unitestats/internal/errors"
)

// CatalogClient fetches the reference catalog, a JSON array of
// {id, name, type, imageUrl}
type CatalogClient struct {
	url    string
	reader reader
}

// NewCatalogClient creates a client for the catalog published at url
func NewCatalogClient(url string, cfg ClientConfig) (*CatalogClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if url == "" {
		return nil, &ValidationError{Field: "url", Message: "catalog URL is required"}
	}
	return &CatalogClient{url: url, reader: newReader(cfg)}, nil
}

// FetchCatalog implements ports.CatalogSource
func (c *CatalogClient) FetchCatalog(ctx context.Context) ([]catalog.Record, error) {
	body, err := c.reader.get(ctx, c.url, nil)
	if err != nil {
		return nil, apperrors.ExternalServiceError("catalog", err)
	}

	var records []catalog.Record
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, apperrors.ExternalServiceError("catalog", fmt.Errorf("failed to parse catalog: %w", err))
	}
	if len(records) == 0 {
		return nil, apperrors.ExternalServiceError("catalog", fmt.Errorf("catalog source returned no records"))
	}

	return records, nil
}
