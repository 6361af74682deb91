// Package memo provides a small get-or-create key/value cache. The binding
// engine uses it to keep handler closures referentially stable across
// repeated binding requests, and the expression validators use it to reuse
// compiled programs.
package memo

import "sync"

// Cache is a string-keyed memoizing store. The zero value is not usable;
// construct with New.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]any
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{entries: make(map[string]any)}
}

// GetOrSet returns the cached value for key, invoking factory and caching its
// result when the key is absent. The factory runs at most once per absent
// key under the single-writer discipline the engine operates in.
func (c *Cache) GetOrSet(key string, factory func() any) any {
	c.mu.RLock()
	if value, ok := c.entries[key]; ok {
		c.mu.RUnlock()
		return value
	}
	c.mu.RUnlock()

	value := factory()
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.entries[key]; ok {
		return existing
	}
	c.entries[key] = value
	return value
}

// Get returns the cached value for key when present.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, ok := c.entries[key]
	return value, ok
}

// Set stores value under key, replacing any previous entry.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

// Has reports whether key is present.
func (c *Cache) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[key]
	return ok
}
