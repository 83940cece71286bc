package cache

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/viralforge/rental-service/internal/ports"
)

// LocalCache is a bounded in-process cache. Expired items are swept by a
// background goroutine started in NewLocalCache and stopped by Close.
type LocalCache struct {
	items *ttlcache.Cache[string, string]
}

func NewLocalCache(defaultTTL time.Duration, capacity uint64) *LocalCache {
	opts := []ttlcache.Option[string, string]{
		ttlcache.WithTTL[string, string](defaultTTL),
		ttlcache.WithDisableTouchOnHit[string, string](),
	}
	if capacity > 0 {
		opts = append(opts, ttlcache.WithCapacity[string, string](capacity))
	}
	items := ttlcache.New(opts...)
	go items.Start()
	return &LocalCache{items: items}
}

func (c *LocalCache) Get(_ context.Context, key string) (string, error) {
	item := c.items.Get(key)
	if item == nil || item.IsExpired() {
		return "", ports.ErrCacheMiss
	}
	return item.Value(), nil
}

func (c *LocalCache) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = ttlcache.DefaultTTL
	}
	c.items.Set(key, value, ttl)
	return nil
}

func (c *LocalCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		c.items.Delete(key)
	}
	return nil
}

func (c *LocalCache) Close() error {
	c.items.Stop()
	return nil
}
