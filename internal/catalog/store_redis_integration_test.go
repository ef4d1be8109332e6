//go:build integration

package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dentops/internal/domain"
	"dentops/pkg/testutil/containers"
)

func TestRedisCache(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	ctx := context.Background()
	cache := NewRedisCache(rc.Client, time.Minute)

	t.Run("round trip", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))

		saved := domain.ExtractionCatalog{
			ProductID:   "p1",
			ProductName: "Full Arch Hybrid",
			Types: []domain.ExtractionType{
				{Name: "Missing teeth", Status: domain.ExtractionActive, IsDefault: domain.FlagYes},
			},
		}
		require.NoError(t, cache.Save(ctx, saved))

		got, err := cache.Find(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, saved, got)
	})

	t.Run("missing product", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))

		_, err := cache.Find(ctx, "ghost")
		assert.True(t, IsNotFound(err))
	})

	t.Run("first returns some cached catalog", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))

		require.NoError(t, cache.Save(ctx, domain.ExtractionCatalog{ProductID: "a"}))
		got, err := cache.First(ctx)
		require.NoError(t, err)
		assert.Equal(t, "a", got.ProductID)
	})

	t.Run("empty cache has no first", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))

		_, err := cache.First(ctx)
		assert.True(t, IsNotFound(err))
	})

	t.Run("entries expire", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))

		short := NewRedisCache(rc.Client, time.Second)
		require.NoError(t, short.Save(ctx, domain.ExtractionCatalog{ProductID: "ttl"}))
		time.Sleep(1500 * time.Millisecond)

		_, err := short.Find(ctx, "ttl")
		assert.True(t, IsNotFound(err))
	})
}
