// Package cache wraps Redis for process-local, read-mostly adapter
// caching, generalized with a read-through helper for typed JSON
// payloads.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache implements a namespaced key-value cache over Redis.
type Cache struct {
	client *redis.Client
	prefix string
}

// New wraps an existing Redis client with a key prefix.
func New(client *redis.Client, prefix string) *Cache {
	return &Cache{client: client, prefix: prefix}
}

// NewFromURL parses a Redis URL and pings it before returning the cache.
func NewFromURL(redisURL, prefix string) (*Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return New(client, prefix), nil
}

func (c *Cache) key(k string) string {
	if c.prefix == "" {
		return k
	}
	return fmt.Sprintf("%s:%s", c.prefix, k)
}

// SetJSON stores a JSON-serializable value with a TTL.
func (c *Cache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	if err := c.client.Set(ctx, c.key(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// GetJSON loads and deserializes a JSON value, returning redis.Nil (via
// errors.Is) unchanged on a cache miss so callers can distinguish miss
// from failure.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) error {
	val, err := c.client.Get(ctx, c.key(key)).Result()
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return nil
}

// Miss reports whether err represents a cache miss.
func Miss(err error) bool {
	return err == redis.Nil
}

// Close releases the underlying Redis connection.
func (c *Cache) Close() error {
	return c.client.Close()
}

// Health checks Redis connectivity.
func (c *Cache) Health(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis health check failed: %w", err)
	}
	return nil
}

// ReadThrough fetches key from cache, falling back to load on a miss and
// populating the cache with the loaded value before returning it.
func ReadThrough[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, load func(ctx context.Context) (T, error)) (T, error) {
	var cached T
	if err := c.GetJSON(ctx, key, &cached); err == nil {
		return cached, nil
	} else if !Miss(err) {
		// cache backend trouble shouldn't fail the request; fall through to load.
		_ = err
	}

	value, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	_ = c.SetJSON(ctx, key, value, ttl)
	return value, nil
}
