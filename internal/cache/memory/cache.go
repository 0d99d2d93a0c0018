// Package memory provides an in-process TTL cache with lazy expiry.
//
// Expiry is evaluated on read: an expired entry is treated as absent and
// evicted on access. There is no background sweeper; absence always
// triggers recomputation upstream, so the cache is never
// correctness-critical.
package memory

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is a mutex-guarded key/value store with per-entry TTLs. Safe for
// concurrent use. Values are treated as immutable once set.
type Cache[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]
	nowFunc func() time.Time
}

// Option configures the Cache.
type Option[V any] func(*Cache[V])

// WithNowFunc overrides the time source for testing.
func WithNowFunc[V any](f func() time.Time) Option[V] {
	return func(c *Cache[V]) {
		c.nowFunc = f
	}
}

// New creates an empty cache.
func New[V any](opts ...Option[V]) *Cache[V] {
	c := &Cache[V]{
		entries: make(map[string]entry[V]),
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the value for key if present and unexpired. An expired
// entry is evicted and reported as absent.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	var zero V
	if !ok {
		return zero, false
	}
	if c.nowFunc().After(e.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock: the entry may have been
		// replaced with a fresh one since the read.
		if cur, still := c.entries[key]; still && c.nowFunc().After(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return zero, false
	}
	return e.value, true
}

// Set stores value under key for ttl.
func (c *Cache[V]) Set(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = entry[V]{value: value, expiresAt: c.nowFunc().Add(ttl)}
	c.mu.Unlock()
}

// Len returns the number of entries currently held, expired or not.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
