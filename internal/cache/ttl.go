package cache

import (
	"context"
	"sort"
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt int64 // epoch milliseconds
}

// TTLCache is an in-memory store with lazy expiry and a size bound. When the
// bound is exceeded the entries closest to expiry are evicted first.
type TTLCache[V any] struct {
	mu      sync.Mutex
	entries map[string]entry[V]
	cfg     settings
}

var _ Store[int] = (*TTLCache[int])(nil)

// NewTTLCache creates an empty in-memory store.
func NewTTLCache[V any](opts ...Option) *TTLCache[V] {
	return &TTLCache[V]{
		entries: make(map[string]entry[V]),
		cfg:     newSettings(opts),
	}
}

// Get returns the value for key. Expired entries are removed and reported as a miss.
func (c *TTLCache[V]) Get(_ context.Context, key string) (V, bool) {
	var zero V
	if !c.cfg.enabled {
		return zero, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	if c.cfg.now().UnixMilli() > e.expiresAt {
		delete(c.entries, key)
		return zero, false
	}
	return e.value, true
}

// Set stores value under key and prunes the table back to its size bound.
func (c *TTLCache[V]) Set(_ context.Context, key string, value V, ttl time.Duration) {
	if !c.cfg.enabled {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{
		value:     value,
		expiresAt: c.cfg.now().UnixMilli() + ttl.Milliseconds(),
	}
	c.evictLocked()
}

// evictLocked removes exactly len-maxSize entries, soonest expiry first.
func (c *TTLCache[V]) evictLocked() {
	if c.cfg.maxSize <= 0 || len(c.entries) <= c.cfg.maxSize {
		return
	}

	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ei, ej := c.entries[keys[i]].expiresAt, c.entries[keys[j]].expiresAt
		if ei != ej {
			return ei < ej
		}
		return keys[i] < keys[j]
	})

	excess := len(c.entries) - c.cfg.maxSize
	for _, k := range keys[:excess] {
		delete(c.entries, k)
	}
}

// Clear removes every entry.
func (c *TTLCache[V]) Clear(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.entries)
	return nil
}

// Len reports the number of stored entries.
func (c *TTLCache[V]) Len(context.Context) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}
