package catalog

import (
	"context"

	"dentops/internal/domain"
)

// CacheStore caches extraction catalogs keyed by product id. Implementations
// are interface-driven so the session cache, Redis, and tests can swap
// without rewiring the chain.
type CacheStore interface {
	Save(ctx context.Context, catalog domain.ExtractionCatalog) error
	Find(ctx context.Context, productID string) (domain.ExtractionCatalog, error)

	// First returns any cached catalog, preferring the earliest saved.
	// Serves the last-resort first-available scan.
	First(ctx context.Context) (domain.ExtractionCatalog, error)
}
