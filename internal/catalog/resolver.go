package catalog

import (
	"context"
	"log/slog"

	"dentops/internal/assignment"
	"dentops/internal/domain"
)

// Resolver turns raw extraction definitions into the usable card set for a
// product and seeds default assignments. No eligible types means no cards:
// absence of configuration is absence of functionality, never fabricated
// defaults.
type Resolver struct {
	chain  *Chain
	logger *slog.Logger
}

// NewResolver builds a resolver over the given fallback chain.
func NewResolver(chain *Chain, logger *slog.Logger) *Resolver {
	return &Resolver{chain: chain, logger: logger}
}

// Resolve fetches the product's catalog and returns it with its eligible
// types. direct, when non-nil, is tried before every configured source. A
// fully unreachable catalog is not an error; it degrades to an empty card
// set.
func (r *Resolver) Resolve(ctx context.Context, ref ProductRef, direct *domain.ExtractionCatalog) (domain.ExtractionCatalog, []domain.ExtractionType) {
	chain := r.chain
	if direct != nil {
		chain = NewChain(r.logger, append([]Source{Direct(direct)}, r.chain.sources...)...)
	}
	catalog, err := chain.Fetch(ctx, ref)
	if err != nil {
		if !IsNotFound(err) && r.logger != nil {
			r.logger.WarnContext(ctx, "extraction catalog unavailable",
				"product_id", ref.ID,
				"error", err,
			)
		}
		return domain.ExtractionCatalog{ProductID: ref.ID, ProductName: ref.Name}, nil
	}
	return catalog, catalog.Eligible()
}

// SeedDefaults auto-populates every default extraction type with all teeth
// of the arch, once per (product, type, arch) and never over user edits.
// Returns the names of the types that were actually seeded.
func (r *Resolver) SeedDefaults(catalog domain.ExtractionCatalog, arena *assignment.Arena, arch domain.Arch) []string {
	var seeded []string
	for _, t := range catalog.Defaults() {
		if arena.SeedDefault(catalog.ProductID, t.Name, arch, domain.ArchTeeth(arch)) {
			seeded = append(seeded, t.Name)
		}
	}
	return seeded
}
