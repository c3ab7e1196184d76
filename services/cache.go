package services

import (
	"sync"
	"time"
)

type cacheEntry struct {
	value    string
	storedAt time.Time
	ttl      time.Duration
}

// TTLCache is a small in-memory cache with per-entry expiry. It is injected
// into components that need it (rather than living as module-level state) so
// tests can reset it deterministically via Clear.
type TTLCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

func NewTTLCache() *TTLCache {
	return &TTLCache{entries: make(map[string]cacheEntry)}
}

// Get returns the cached value for key if present and not expired.
func (c *TTLCache) Get(key string) (string, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return "", false
	}
	if entry.ttl > 0 && time.Since(entry.storedAt) >= entry.ttl {
		c.mu.Lock()
		// Re-check under the write lock; another goroutine may have refreshed.
		if current, still := c.entries[key]; still && current.storedAt.Equal(entry.storedAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return "", false
	}
	return entry.value, true
}

// Set stores value under key for ttl. A non-positive ttl keeps the entry
// until Clear is called.
func (c *TTLCache) Set(key, value string, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{value: value, storedAt: time.Now(), ttl: ttl}
}

// Clear drops all entries.
func (c *TTLCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}
