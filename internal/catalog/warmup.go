package catalog

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Warm preloads the cache for a list of products by fetching each catalog
// from the authoritative source in parallel. Individual misses are skipped;
// only infrastructure failures propagate.
func Warm(ctx context.Context, source Source, cache CacheStore, refs []ProductRef, logger *slog.Logger) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for _, ref := range refs {
		ref := ref
		g.Go(func() error {
			catalog, err := source.Fetch(ctx, ref)
			if err != nil {
				if IsNotFound(err) {
					return nil
				}
				return err
			}
			if err := cache.Save(ctx, catalog); err != nil {
				if logger != nil {
					logger.WarnContext(ctx, "catalog warm-up save failed",
						"product_id", ref.ID,
						"error", err,
					)
				}
			}
			return nil
		})
	}
	return g.Wait()
}
