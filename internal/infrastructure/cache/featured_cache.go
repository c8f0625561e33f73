// Package cache provides the Redis-backed cache for the featured content set.
// The model gateway itself never caches; only this read surface does.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/caribbeanrecipe/assistant/internal/domain/content"
	"github.com/caribbeanrecipe/assistant/internal/infrastructure/config"
	"github.com/caribbeanrecipe/assistant/internal/ports/outbound"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const featuredKey = "content:featured"

// NewRedisClient creates a Redis client from configuration
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:    cfg.Password,
		DB:          cfg.Database,
		PoolSize:    cfg.PoolSize,
		DialTimeout: cfg.DialTimeout,
	})
}

// FeaturedCache caches the featured content set as a single JSON blob with a
// short TTL. Failures degrade to cache misses so the read path can always
// fall through to the database.
type FeaturedCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewFeaturedCache creates a new featured content cache
func NewFeaturedCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *FeaturedCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &FeaturedCache{client: client, ttl: ttl, logger: logger}
}

var _ outbound.FeaturedCache = (*FeaturedCache)(nil)

// Get returns the cached featured set, or (nil, nil) on a miss or when the
// cache is unavailable.
func (c *FeaturedCache) Get(ctx context.Context) (*content.FeaturedSet, error) {
	data, err := c.client.Get(ctx, featuredKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("featured cache read failed", zap.Error(err))
		}
		return nil, nil
	}

	var set content.FeaturedSet
	if err := json.Unmarshal(data, &set); err != nil {
		c.logger.Warn("featured cache entry corrupt, dropping", zap.Error(err))
		c.client.Del(ctx, featuredKey)
		return nil, nil
	}
	return &set, nil
}

// Set stores the featured set with the configured TTL.
func (c *FeaturedCache) Set(ctx context.Context, set *content.FeaturedSet) error {
	data, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("failed to marshal featured set: %w", err)
	}
	if err := c.client.Set(ctx, featuredKey, data, c.ttl).Err(); err != nil {
		c.logger.Warn("featured cache write failed", zap.Error(err))
	}
	return nil
}

// Invalidate drops the cached featured set.
func (c *FeaturedCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, featuredKey).Err(); err != nil {
		c.logger.Warn("featured cache invalidation failed", zap.Error(err))
	}
	return nil
}

// NoopFeaturedCache is used when Redis is disabled: every read is a miss.
type NoopFeaturedCache struct{}

// Get always reports a miss
func (NoopFeaturedCache) Get(ctx context.Context) (*content.FeaturedSet, error) { return nil, nil }

// Set discards the set
func (NoopFeaturedCache) Set(ctx context.Context, set *content.FeaturedSet) error { return nil }

// Invalidate does nothing
func (NoopFeaturedCache) Invalidate(ctx context.Context) error { return nil }
