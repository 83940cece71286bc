package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/viralforge/rental-service/internal/ports"
)

// TieredCache reads through a local L1 to a shared L2. L2 failures degrade to
// a miss so a flaky redis never fails a read path.
type TieredCache struct {
	local  ports.Cache
	shared ports.Cache
	l1TTL  time.Duration
	logger *slog.Logger
}

func NewTieredCache(local, shared ports.Cache, l1TTL time.Duration, logger *slog.Logger) *TieredCache {
	if logger == nil {
		logger = slog.Default()
	}
	if l1TTL <= 0 {
		l1TTL = 30 * time.Second
	}
	return &TieredCache{local: local, shared: shared, l1TTL: l1TTL, logger: logger}
}

func (c *TieredCache) Get(ctx context.Context, key string) (string, error) {
	if value, err := c.local.Get(ctx, key); err == nil {
		return value, nil
	}
	value, err := c.shared.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ports.ErrCacheMiss) {
			c.warn(ctx, "get", key, err)
		}
		return "", ports.ErrCacheMiss
	}
	_ = c.local.Set(ctx, key, value, c.l1TTL)
	return value, nil
}

func (c *TieredCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	l1 := c.l1TTL
	if ttl > 0 && ttl < l1 {
		l1 = ttl
	}
	_ = c.local.Set(ctx, key, value, l1)
	if err := c.shared.Set(ctx, key, value, ttl); err != nil {
		c.warn(ctx, "set", key, err)
	}
	return nil
}

func (c *TieredCache) Delete(ctx context.Context, keys ...string) error {
	_ = c.local.Delete(ctx, keys...)
	return c.shared.Delete(ctx, keys...)
}

func (c *TieredCache) warn(ctx context.Context, operation, key string, err error) {
	c.logger.WarnContext(ctx, "shared cache unavailable",
		"module", "cache.tiered",
		"layer", "adapter",
		"operation", operation,
		"outcome", "degraded",
		"key", key,
		"error", err,
	)
}
