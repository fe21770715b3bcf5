// Package cache keeps recently served rendition bytes in Redis so repeat
// image requests skip the database.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"ppsg-cms/models"
)

// RenditionCache is a Redis-backed byte cache. A nil client disables it:
// every Get misses and every write is a no-op.
type RenditionCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRenditionCache(rdb *redis.Client, ttl time.Duration) *RenditionCache {
	return &RenditionCache{rdb: rdb, ttl: ttl}
}

func key(id string, size models.SizeName) string {
	return fmt.Sprintf("rendition:%s:%s", id, size)
}

func (c *RenditionCache) enabled() bool {
	return c != nil && c.rdb != nil
}

// Get returns the cached bytes, or ok == false on a miss.
func (c *RenditionCache) Get(ctx context.Context, id string, size models.SizeName) ([]byte, bool, error) {
	if !c.enabled() {
		return nil, false, nil
	}
	data, err := c.rdb.Get(ctx, key(id, size)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (c *RenditionCache) Set(ctx context.Context, id string, size models.SizeName, data []byte) error {
	if !c.enabled() {
		return nil
	}
	return c.rdb.Set(ctx, key(id, size), data, c.ttl).Err()
}

// Invalidate drops every cached size of a media record.
func (c *RenditionCache) Invalidate(ctx context.Context, id string) error {
	if !c.enabled() {
		return nil
	}
	keys := []string{
		key(id, models.SizeThumbnail),
		key(id, models.SizeSmall),
		key(id, models.SizeMedium),
		key(id, models.SizeLarge),
	}
	return c.rdb.Del(ctx, keys...).Err()
}
