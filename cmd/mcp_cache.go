package cmd

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// mcpCacheEntry holds a query result with its timestamp.
type mcpCacheEntry struct {
	data      json.RawMessage
	timestamp time.Time
}

// mcpQueryCache is a TTL cache of query results keyed by query name.
// Any command run through the bridge clears it.
type mcpQueryCache struct {
	mu      sync.Mutex
	entries map[string]mcpCacheEntry
	ttl     time.Duration
	now     func() time.Time
}

// newMCPQueryCache creates a new cache. A ttl of 0 disables caching.
func newMCPQueryCache(ttl time.Duration) *mcpQueryCache {
	return &mcpQueryCache{
		entries: make(map[string]mcpCacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// query returns the cached result for name if within TTL, otherwise calls
// fetch and stores what it returns.
func (c *mcpQueryCache) query(ctx context.Context, name string, fetch func(context.Context, string) (json.RawMessage, error)) (json.RawMessage, error) {
	if c.ttl == 0 {
		return fetch(ctx, name)
	}

	c.mu.Lock()
	if entry, ok := c.entries[name]; ok && c.now().Sub(entry.timestamp) < c.ttl {
		c.mu.Unlock()
		return entry.data, nil
	}
	c.mu.Unlock()

	data, err := fetch(ctx, name)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[name] = mcpCacheEntry{data: data, timestamp: c.now()}
	c.mu.Unlock()
	return data, nil
}

// invalidateAll clears the entire cache.
func (c *mcpQueryCache) invalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}
