package catalog

import (
	"sync"
	"time"
)

type cacheEntry[V any] struct {
	value   V
	expires time.Time
}

// refCache is a TTL-based in-memory cache for immutable reference data.
// Genres and MPA ratings only change via migrations, so a short TTL is
// enough to keep lookups off the hot path without an invalidation protocol.
type refCache[K comparable, V any] struct {
	ttl time.Duration

	mu    sync.RWMutex
	items map[K]cacheEntry[V]
}

func newRefCache[K comparable, V any](ttl time.Duration) *refCache[K, V] {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &refCache[K, V]{
		ttl:   ttl,
		items: make(map[K]cacheEntry[V]),
	}
}

func (c *refCache[K, V]) get(key K) (V, bool) {
	c.mu.RLock()
	entry, ok := c.items[key]
	c.mu.RUnlock()

	if !ok || time.Now().After(entry.expires) {
		var zero V
		return zero, false
	}
	return entry.value, true
}

func (c *refCache[K, V]) put(key K, value V) {
	c.mu.Lock()
	c.items[key] = cacheEntry[V]{value: value, expires: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}
