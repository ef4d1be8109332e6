package catalog

import (
	"context"
	"log/slog"

	"dentops/internal/domain"
)

// ProductRef identifies the product whose extraction catalog is wanted.
// BaseID is the looser family identifier some sources key on (a shade or
// size variant shares its base product's extraction configuration).
type ProductRef struct {
	ID     string
	BaseID string
	Name   string
}

// Source supplies an extraction catalog for a product. Sources return
// ErrNotFound (or a not_found SourceError) when they simply have no data.
type Source interface {
	ID() string
	Fetch(ctx context.Context, ref ProductRef) (domain.ExtractionCatalog, error)
}

// Chain tries an ordered list of sources and stops at the first success.
// A failing source is logged and skipped; the chain only reports not-found
// when every source came up empty. This multi-source fallback is a
// deliberate resilience feature: the console stays usable when the
// immediate call site lacks fresh data.
type Chain struct {
	sources []Source
	logger  *slog.Logger
}

// NewChain builds a fallback chain. Sources are tried in the given order,
// most specific first.
func NewChain(logger *slog.Logger, sources ...Source) *Chain {
	return &Chain{sources: sources, logger: logger}
}

// Fetch returns the first catalog any source produces.
func (c *Chain) Fetch(ctx context.Context, ref ProductRef) (domain.ExtractionCatalog, error) {
	for _, src := range c.sources {
		catalog, err := src.Fetch(ctx, ref)
		if err == nil {
			return catalog, nil
		}
		if IsNotFound(err) {
			continue
		}
		if c.logger != nil {
			c.logger.WarnContext(ctx, "catalog source failed, trying next",
				"source", src.ID(),
				"product_id", ref.ID,
				"error", err,
			)
		}
	}
	return domain.ExtractionCatalog{}, ErrNotFound
}

// directSource serves a catalog handed in by the immediate caller. Most
// specific link of the chain.
type directSource struct {
	catalog domain.ExtractionCatalog
	ok      bool
}

// Direct wraps an explicitly supplied catalog as a Source. A nil argument
// yields a source that always misses.
func Direct(catalog *domain.ExtractionCatalog) Source {
	if catalog == nil {
		return directSource{}
	}
	return directSource{catalog: *catalog, ok: true}
}

func (directSource) ID() string { return "direct" }

func (s directSource) Fetch(_ context.Context, _ ProductRef) (domain.ExtractionCatalog, error) {
	if !s.ok {
		return domain.ExtractionCatalog{}, ErrNotFound
	}
	return s.catalog, nil
}

// cacheSource adapts a CacheStore lookup keyed by product id.
type cacheSource struct {
	id    string
	store CacheStore
	key   func(ProductRef) string
}

// ByID reads the cache under the product's own id.
func ByID(id string, store CacheStore) Source {
	return cacheSource{id: id, store: store, key: func(r ProductRef) string { return r.ID }}
}

// ByBaseID reads the cache under the looser base-product id.
func ByBaseID(id string, store CacheStore) Source {
	return cacheSource{id: id, store: store, key: func(r ProductRef) string { return r.BaseID }}
}

func (s cacheSource) ID() string { return s.id }

func (s cacheSource) Fetch(ctx context.Context, ref ProductRef) (domain.ExtractionCatalog, error) {
	key := s.key(ref)
	if key == "" {
		return domain.ExtractionCatalog{}, ErrNotFound
	}
	return s.store.Find(ctx, key)
}

// firstAvailableSource is the last-resort scan: any cached catalog at all.
type firstAvailableSource struct {
	store CacheStore
}

// FirstAvailable returns whatever catalog the cache holds, regardless of
// product. Keeps a stale-but-plausible card set on screen rather than none
// when every keyed lookup misses.
func FirstAvailable(store CacheStore) Source {
	return firstAvailableSource{store: store}
}

func (firstAvailableSource) ID() string { return "first-available" }

func (s firstAvailableSource) Fetch(ctx context.Context, _ ProductRef) (domain.ExtractionCatalog, error) {
	return s.store.First(ctx)
}
