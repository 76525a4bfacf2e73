package strategy

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores computed strategies between runs of the dispatch flow.
// Get returns nil with no error on a miss.
type Cache interface {
	Get(ctx context.Context, customerID string) (*Strategy, error)
	Set(ctx context.Context, s Strategy) error
}

// RedisCache is a Redis-backed strategy cache with TTL expiry.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to Redis at addr. Entries expire after ttl.
func NewRedisCache(addr string, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
	}
}

func strategyKey(customerID string) string { return "strategy:" + customerID }

// Get implements Cache.
func (c *RedisCache) Get(ctx context.Context, customerID string) (*Strategy, error) {
	val, err := c.client.Get(ctx, strategyKey(customerID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	var s Strategy
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		return nil, fmt.Errorf("cache decode: %w", err)
	}
	return &s, nil
}

// Set implements Cache.
func (c *RedisCache) Set(ctx context.Context, s Strategy) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.client.Set(ctx, strategyKey(s.CustomerID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// MemoryCache is an in-process Cache for tests and cache-less runs.
type MemoryCache struct {
	entries map[string]Strategy
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]Strategy)}
}

// Get implements Cache.
func (c *MemoryCache) Get(_ context.Context, customerID string) (*Strategy, error) {
	if s, ok := c.entries[customerID]; ok {
		out := s
		return &out, nil
	}
	return nil, nil
}

// Set implements Cache.
func (c *MemoryCache) Set(_ context.Context, s Strategy) error {
	c.entries[s.CustomerID] = s
	return nil
}
