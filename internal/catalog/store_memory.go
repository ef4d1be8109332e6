package catalog

import (
	"context"
	"sync"
	"time"

	"dentops/internal/domain"
)

// InMemoryCache is the session-scoped catalog cache. It favors clarity over
// performance, like the rest of the in-memory stores.
type InMemoryCache struct {
	mu      sync.RWMutex
	entries map[string]cachedCatalog
	order   []string
	ttl     time.Duration
	now     func() time.Time
}

type cachedCatalog struct {
	catalog  domain.ExtractionCatalog
	storedAt time.Time
}

// NewInMemoryCache creates a cache whose entries expire after ttl. A zero
// ttl disables expiry.
func NewInMemoryCache(ttl time.Duration) *InMemoryCache {
	return &InMemoryCache{
		entries: make(map[string]cachedCatalog),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *InMemoryCache) Save(_ context.Context, catalog domain.ExtractionCatalog) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[catalog.ProductID]; !exists {
		c.order = append(c.order, catalog.ProductID)
	}
	c.entries[catalog.ProductID] = cachedCatalog{catalog: catalog, storedAt: c.now()}
	return nil
}

func (c *InMemoryCache) Find(_ context.Context, productID string) (domain.ExtractionCatalog, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if cached, ok := c.entries[productID]; ok && c.fresh(cached) {
		return cached.catalog, nil
	}
	return domain.ExtractionCatalog{}, ErrNotFound
}

func (c *InMemoryCache) First(_ context.Context) (domain.ExtractionCatalog, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, id := range c.order {
		if cached, ok := c.entries[id]; ok && c.fresh(cached) {
			return cached.catalog, nil
		}
	}
	return domain.ExtractionCatalog{}, ErrNotFound
}

func (c *InMemoryCache) fresh(cached cachedCatalog) bool {
	return c.ttl == 0 || c.now().Sub(cached.storedAt) < c.ttl
}
