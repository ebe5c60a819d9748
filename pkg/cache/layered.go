package cache

import (
	"context"
	"time"
)

// LayeredCache reads through an in-process layer in front of Redis.
// Lock operations always go straight to Redis: a lock held only in one
// process's memory would not serialize anything.
type LayeredCache struct {
	local *MemoryCache
	redis *RedisCache
}

var _ Service = (*LayeredCache)(nil)

// NewLayeredCache wraps a Redis cache with a small in-process layer.
func NewLayeredCache(redis *RedisCache) *LayeredCache {
	return &LayeredCache{
		local: NewMemoryCache(1000),
		redis: redis,
	}
}

func (lc *LayeredCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if err := lc.redis.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	_ = lc.local.Set(ctx, key, value, ttl)
	return nil
}

func (lc *LayeredCache) Get(ctx context.Context, key string, dest interface{}) error {
	if err := lc.local.Get(ctx, key, dest); err == nil {
		return nil
	}
	var raw string
	if err := lc.redis.Get(ctx, key, &raw); err != nil {
		return err
	}
	_ = lc.local.Set(ctx, key, raw, 0)
	if s, ok := dest.(*string); ok {
		*s = raw
		return nil
	}
	return decodeInto(raw, dest)
}

func (lc *LayeredCache) Delete(ctx context.Context, keys ...string) error {
	_ = lc.local.Delete(ctx, keys...)
	return lc.redis.Delete(ctx, keys...)
}

func (lc *LayeredCache) Exists(ctx context.Context, keys ...string) (bool, error) {
	return lc.redis.Exists(ctx, keys...)
}

func (lc *LayeredCache) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return lc.redis.TryLock(ctx, key, ttl)
}

func (lc *LayeredCache) Unlock(ctx context.Context, key string) error {
	return lc.redis.Unlock(ctx, key)
}

// Close closes both layers.
func (lc *LayeredCache) Close() error {
	_ = lc.local.Close()
	return lc.redis.Close()
}
