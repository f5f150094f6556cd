package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"greensteps/internal/application"
	"greensteps/internal/domain"
)

// Backend is a store that can also report its health.
type Backend interface {
	application.Store
	Ping(ctx context.Context) error
}

// CatalogCache serves the tip and badge catalog from redis and passes every
// other call to the backend. The catalog never changes after startup, so
// entries simply expire.
type CatalogCache struct {
	Backend
	rdb *redis.Client
	ttl time.Duration
}

func NewCatalogCache(backend Backend, rdb *redis.Client, ttl time.Duration) *CatalogCache {
	return &CatalogCache{Backend: backend, rdb: rdb, ttl: ttl}
}

func (c *CatalogCache) AllTips(ctx context.Context) ([]domain.Tip, error) {
	return cached(ctx, c, "catalog:tips:all", c.Backend.AllTips)
}

func (c *CatalogCache) TipsByCategory(ctx context.Context, category string) ([]domain.Tip, error) {
	return cached(ctx, c, "catalog:tips:category:"+category, func(ctx context.Context) ([]domain.Tip, error) {
		return c.Backend.TipsByCategory(ctx, category)
	})
}

func (c *CatalogCache) AllBadges(ctx context.Context) ([]domain.Badge, error) {
	return cached(ctx, c, "catalog:badges", c.Backend.AllBadges)
}

func cached[T any](ctx context.Context, c *CatalogCache, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	// 1. Cache
	if val, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		var out []T
		if json.Unmarshal(val, &out) == nil {
			return out, nil
		}
	}

	// 2. Backend
	out, err := load(ctx)
	if err != nil {
		return nil, err
	}

	// 3. Fill; a failed write only costs a backend read next time.
	if data, err := json.Marshal(out); err == nil {
		c.rdb.Set(ctx, key, data, c.ttl)
	}
	return out, nil
}
