// Package cache provides an optional Redis-backed cache for rendered
// API views. Entries are keyed by snapshot ID, so a refresh naturally
// invalidates everything cached for the previous dataset; stale keys
// age out through the TTL.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Observer receives cache outcome notifications
type Observer interface {
	CacheHit()
	CacheMiss()
}

// SnapshotCache stores JSON-encoded view payloads in Redis. A nil
// *SnapshotCache is valid: every Get misses and every Set is a no-op,
// which lets callers run without Redis configured.
type SnapshotCache struct {
	client   *redis.Client
	ttl      time.Duration
	observer Observer
}

// New connects to Redis and returns a cache that expires entries
// after ttl
func New(address, password string, db int, ttl time.Duration, observer Observer) (*SnapshotCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &SnapshotCache{
		client:   client,
		ttl:      ttl,
		observer: observer,
	}, nil
}

// Key returns the Redis key for a view rendered from one snapshot
func Key(snapshotID, view string) string {
	return fmt.Sprintf("burnout:snapshot:%s:%s", snapshotID, view)
}

// Get loads a cached view into out and reports whether it was found.
// Connection and decode failures count as misses so the caller falls
// back to recomputing the view.
func (c *SnapshotCache) Get(ctx context.Context, snapshotID, view string, out any) bool {
	if c == nil {
		return false
	}

	data, err := c.client.Get(ctx, Key(snapshotID, view)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("cache read failed", "view", view, "error", err)
		}
		c.recordMiss()
		return false
	}

	if err := json.Unmarshal(data, out); err != nil {
		slog.Warn("discarding undecodable cache entry", "view", view, "error", err)
		c.recordMiss()
		return false
	}

	c.recordHit()
	return true
}

// Set stores a rendered view. Failures are logged and swallowed; the
// cache never fails a request.
func (c *SnapshotCache) Set(ctx context.Context, snapshotID, view string, value any) {
	if c == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		slog.Warn("failed to marshal cache entry", "view", view, "error", err)
		return
	}

	if err := c.client.Set(ctx, Key(snapshotID, view), data, c.ttl).Err(); err != nil {
		slog.Warn("cache write failed", "view", view, "error", err)
	}
}

// HealthCheck verifies Redis connectivity
func (c *SnapshotCache) HealthCheck(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (c *SnapshotCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

func (c *SnapshotCache) recordHit() {
	if c.observer != nil {
		c.observer.CacheHit()
	}
}

func (c *SnapshotCache) recordMiss() {
	if c.observer != nil {
		c.observer.CacheMiss()
	}
}
