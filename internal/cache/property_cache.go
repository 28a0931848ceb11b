package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// PropertyCache stores rendered property detail payloads in Redis.
type PropertyCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPropertyCache creates a PropertyCache with the given entry lifetime.
func NewPropertyCache(client *redis.Client, ttl time.Duration) *PropertyCache {
	return &PropertyCache{client: client, ttl: ttl}
}

// PropertyKey returns the cache key of a property detail entry.
func PropertyKey(id uuid.UUID) string {
	return fmt.Sprintf("property:%s", id.String())
}

// Get decodes the cached entry into dest. It reports false on a miss.
func (c *PropertyCache) Get(ctx context.Context, id uuid.UUID, dest any) (bool, error) {
	raw, err := c.client.Get(ctx, PropertyKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read property cache: %w", err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("failed to decode property cache entry: %w", err)
	}
	return true, nil
}

// Set stores value under the property's key.
func (c *PropertyCache) Set(ctx context.Context, id uuid.UUID, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode property cache entry: %w", err)
	}
	if err := c.client.Set(ctx, PropertyKey(id), string(raw), c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write property cache: %w", err)
	}
	return nil
}

// Invalidate drops the property's entry.
func (c *PropertyCache) Invalidate(ctx context.Context, id uuid.UUID) error {
	if err := c.client.Del(ctx, PropertyKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate property cache: %w", err)
	}
	return nil
}

// Nop is a cache that never stores anything; used when Redis is not configured.
type Nop struct{}

func (Nop) Get(context.Context, uuid.UUID, any) (bool, error) { return false, nil }
func (Nop) Set(context.Context, uuid.UUID, any) error         { return nil }
func (Nop) Invalidate(context.Context, uuid.UUID) error       { return nil }
