// Package cache implements the timed caches used by the API client: a
// generic in-memory TTL cache, and a durable variant that mirrors its live
// entries into the key-value store so preloaded data survives restarts.
package cache

import (
	"net/url"
	"sync"
	"time"
)

const (
	// DefaultTTL matches the five-minute response cache of the API client.
	DefaultTTL = 5 * time.Minute

	// DefaultMaxEntries is the entry-count ceiling above which Set sweeps
	// expired entries.
	DefaultMaxEntries = 100
)

type entry[V any] struct {
	value    V
	storedAt time.Time
}

// Cache is a TTL cache. An entry is valid iff now-storedAt < ttl; expired
// entries behave as absent and are purged lazily on access or during the
// size-based sweep. The sweep never removes live entries (no LRU), so the
// cache can transiently exceed its ceiling.
type Cache[V any] struct {
	mu         sync.Mutex
	entries    map[string]entry[V]
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// New creates a cache with the given TTL and sweep ceiling. Non-positive
// arguments fall back to the defaults.
func New[V any](ttl time.Duration, maxEntries int) *Cache[V] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Cache[V]{
		entries:    make(map[string]entry[V]),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get returns the value for key if it is still within TTL. An expired
// entry is evicted and reported as absent.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if c.now().Sub(e.storedAt) >= c.ttl {
		delete(c.entries, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value with storedAt = now, then sweeps expired entries if the
// entry count exceeds the ceiling.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{value: value, storedAt: c.now()}
	if len(c.entries) > c.maxEntries {
		c.sweepLocked()
	}
}

// sweepLocked removes all expired entries. Callers hold c.mu.
func (c *Cache[V]) sweepLocked() {
	now := c.now()
	for k, e := range c.entries {
		if now.Sub(e.storedAt) >= c.ttl {
			delete(c.entries, k)
		}
	}
}

// Clear empties the cache immediately.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry[V])
}

// Len returns the current entry count, expired entries included.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Key builds a deterministic cache key for a request-scoped cache from the
// endpoint and its parameters. url.Values.Encode sorts by parameter name,
// so two logically identical requests produce the same key regardless of
// the order the parameters were added in.
func Key(endpoint string, params url.Values) string {
	if len(params) == 0 {
		return endpoint
	}
	return endpoint + "?" + params.Encode()
}
