package cache

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// DefaultLocalTTL bounds how long a completion result stays reusable.
// Completions go stale quickly as the document changes around them.
const DefaultLocalTTL = 5 * time.Minute

// DefaultLocalCapacity caps the in-memory entry count.
const DefaultLocalCapacity = 2048

// LocalCache implements Cache using an in-memory TTL cache.
// This is suitable for single-instance deployments.
type LocalCache struct {
	items *ttlcache.Cache[string, *Entry]
	stop  func()
}

// NewLocalCache creates a new in-memory cache. A zero ttl or capacity
// picks the default.
func NewLocalCache(ttl time.Duration, capacity int) *LocalCache {
	if ttl <= 0 {
		ttl = DefaultLocalTTL
	}
	if capacity <= 0 {
		capacity = DefaultLocalCapacity
	}
	items := ttlcache.New(
		ttlcache.WithTTL[string, *Entry](ttl),
		ttlcache.WithCapacity[string, *Entry](uint64(capacity)),
	)
	go items.Start()
	return &LocalCache{items: items, stop: items.Stop}
}

// Get retrieves a cached result from memory.
func (c *LocalCache) Get(ctx context.Context, key string) (*Entry, error) {
	item := c.items.Get(key)
	if item == nil {
		return nil, nil
	}
	return item.Value(), nil
}

// Set stores a completion result in memory.
func (c *LocalCache) Set(ctx context.Context, key string, entry *Entry) error {
	c.items.Set(key, entry, ttlcache.DefaultTTL)
	return nil
}

// Close stops the expiration loop.
func (c *LocalCache) Close() error {
	c.stop()
	return nil
}
