package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"dentops/internal/domain"
)

const redisKeyPrefix = "dentops:catalog:"

// RedisCache persists extraction catalogs in Redis so a restarted console
// picks up the last known configuration without a round trip to the product
// service.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache wraps a connected client. Entries expire after ttl.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Save(ctx context.Context, catalog domain.ExtractionCatalog) error {
	payload, err := json.Marshal(catalog)
	if err != nil {
		return NewSourceError(ErrorBadData, "redis", "marshal catalog", err)
	}
	if err := c.client.Set(ctx, redisKeyPrefix+catalog.ProductID, payload, c.ttl).Err(); err != nil {
		return NewSourceError(ErrorOutage, "redis", "save catalog", err)
	}
	return nil
}

func (c *RedisCache) Find(ctx context.Context, productID string) (domain.ExtractionCatalog, error) {
	payload, err := c.client.Get(ctx, redisKeyPrefix+productID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.ExtractionCatalog{}, ErrNotFound
		}
		return domain.ExtractionCatalog{}, NewSourceError(ErrorOutage, "redis", "find catalog", err)
	}
	return c.decode(payload)
}

func (c *RedisCache) First(ctx context.Context) (domain.ExtractionCatalog, error) {
	iter := c.client.Scan(ctx, 0, redisKeyPrefix+"*", 1).Iterator()
	for iter.Next(ctx) {
		payload, err := c.client.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return domain.ExtractionCatalog{}, NewSourceError(ErrorOutage, "redis", "scan catalogs", err)
		}
		return c.decode(payload)
	}
	if err := iter.Err(); err != nil {
		return domain.ExtractionCatalog{}, NewSourceError(ErrorOutage, "redis", "scan catalogs", err)
	}
	return domain.ExtractionCatalog{}, ErrNotFound
}

func (c *RedisCache) decode(payload []byte) (domain.ExtractionCatalog, error) {
	var catalog domain.ExtractionCatalog
	if err := json.Unmarshal(payload, &catalog); err != nil {
		return domain.ExtractionCatalog{}, NewSourceError(ErrorBadData, "redis", fmt.Sprintf("decode catalog (%d bytes)", len(payload)), err)
	}
	return catalog, nil
}
