package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"saferide/internal/domain"
)

const (
	catalogCacheKey = "cache:ridetypes"

	// The catalog is static during a session; a long TTL just bounds
	// staleness across restarts with changed seed data.
	catalogCacheTTL = 10 * time.Minute
)

// CatalogCache caches the ride type catalog in Redis.
type CatalogCache struct {
	client *redis.Client
}

// NewCatalogCache creates a new CatalogCache.
func NewCatalogCache(client *redis.Client) *CatalogCache {
	return &CatalogCache{client: client}
}

// Get retrieves the cached catalog. Returns nil on a cache miss.
func (c *CatalogCache) Get(ctx context.Context) ([]*domain.RideType, error) {
	data, err := c.client.Get(ctx, catalogCacheKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var types []*domain.RideType
	if err := json.Unmarshal(data, &types); err != nil {
		return nil, err
	}
	return types, nil
}

// Set stores the catalog.
func (c *CatalogCache) Set(ctx context.Context, types []*domain.RideType) error {
	data, err := json.Marshal(types)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, catalogCacheKey, data, catalogCacheTTL).Err()
}

// Invalidate drops the cached catalog.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, catalogCacheKey).Err()
}
