package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dentops/internal/assignment"
	"dentops/internal/domain"
)

func eligibleCatalog() domain.ExtractionCatalog {
	return domain.ExtractionCatalog{
		ProductID:   "p1",
		ProductName: "Full Arch Hybrid",
		Types: []domain.ExtractionType{
			{Name: "Missing teeth", Status: domain.ExtractionActive, IsDefault: domain.FlagYes},
			{Name: "Implant", Status: domain.ExtractionActive, IsOptional: domain.FlagYes},
			{Name: "Retired", Status: domain.ExtractionInactive, IsDefault: domain.FlagYes},
		},
	}
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	ref := ProductRef{ID: "p1", Name: "Full Arch Hybrid"}

	t.Run("direct argument outranks configured sources", func(t *testing.T) {
		cached := &stubSource{id: "cache", catalog: namedCatalog("stale")}
		resolver := NewResolver(NewChain(nil, cached), nil)

		direct := eligibleCatalog()
		got, eligible := resolver.Resolve(ctx, ref, &direct)
		assert.Equal(t, "p1", got.ProductID)
		assert.Len(t, eligible, 2)
		assert.Zero(t, cached.calls)
	})

	t.Run("falls through to the chain without a direct catalog", func(t *testing.T) {
		cached := &stubSource{id: "cache", catalog: eligibleCatalog()}
		resolver := NewResolver(NewChain(nil, cached), nil)

		got, eligible := resolver.Resolve(ctx, ref, nil)
		assert.Equal(t, "p1", got.ProductID)
		assert.Len(t, eligible, 2)
	})

	t.Run("unreachable catalog degrades to an empty card set", func(t *testing.T) {
		broken := &stubSource{id: "down", err: NewSourceError(ErrorOutage, "down", "dead", errors.New("refused"))}
		resolver := NewResolver(NewChain(nil, broken), nil)

		got, eligible := resolver.Resolve(ctx, ref, nil)
		assert.Equal(t, "p1", got.ProductID)
		assert.Equal(t, "Full Arch Hybrid", got.ProductName)
		assert.Empty(t, eligible)
	})

	t.Run("configured but all-ineligible catalog yields no cards", func(t *testing.T) {
		inactive := domain.ExtractionCatalog{
			ProductID: "p1",
			Types:     []domain.ExtractionType{{Name: "Retired", Status: domain.ExtractionInactive}},
		}
		resolver := NewResolver(NewChain(nil), nil)

		_, eligible := resolver.Resolve(ctx, ref, &inactive)
		assert.Empty(t, eligible)
	})
}

func TestSeedDefaults(t *testing.T) {
	resolver := NewResolver(NewChain(nil), nil)

	t.Run("every default type gets the whole arch once", func(t *testing.T) {
		arena := assignment.New()
		seeded := resolver.SeedDefaults(eligibleCatalog(), arena, domain.ArchMaxillary)
		require.Equal(t, []string{"Missing teeth"}, seeded, "inactive defaults are not seeded")
		assert.Equal(t, domain.ArchTeeth(domain.ArchMaxillary), arena.Teeth("Missing teeth", domain.ArchMaxillary))

		assert.Empty(t, resolver.SeedDefaults(eligibleCatalog(), arena, domain.ArchMaxillary),
			"repeat seeding is a no-op")
	})

	t.Run("user edits survive seeding", func(t *testing.T) {
		arena := assignment.New()
		arena.SetTeeth("Missing teeth", domain.ArchMaxillary, []int{1, 2}, true)

		assert.Empty(t, resolver.SeedDefaults(eligibleCatalog(), arena, domain.ArchMaxillary))
		assert.Equal(t, []int{1, 2}, arena.Teeth("Missing teeth", domain.ArchMaxillary))
	})

	t.Run("empty catalog seeds nothing", func(t *testing.T) {
		arena := assignment.New()
		assert.Empty(t, resolver.SeedDefaults(domain.ExtractionCatalog{ProductID: "p2"}, arena, domain.ArchMandibular))
		assert.Empty(t, arena.SelectedTeeth(domain.ArchMandibular))
	})
}
