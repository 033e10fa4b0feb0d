package cache

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// LRUCache is a size-bounded cache of scores with hit/miss accounting.
type LRUCache[V any] struct {
	cache *lru.Cache[CacheKey, V]
	stats *CacheStats
	mu    sync.Mutex
}

// NewLRUCache creates a new LRU cache
func NewLRUCache[V any](config *CacheConfig) (*LRUCache[V], error) {
	if config == nil {
		config = DefaultCacheConfig()
	}

	cache, err := lru.New[CacheKey, V](config.MaxSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create LRU cache: %w", err)
	}

	return &LRUCache[V]{
		cache: cache,
		stats: &CacheStats{MaxSize: config.MaxSize},
	}, nil
}

// Get retrieves a value from the cache
func (c *LRUCache[V]) Get(key CacheKey) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.cache.Get(key)
	if !ok {
		c.stats.Misses++
		return v, false
	}
	c.stats.Hits++
	return v, true
}

// Set stores a value in the cache, evicting the least recently used entry
// when full.
func (c *LRUCache[V]) Set(key CacheKey, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cache.Add(key, value) {
		c.stats.Evictions++
	}
	c.stats.Size = c.cache.Len()
}

// Stats returns cache statistics
func (c *LRUCache[V]) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := *c.stats
	stats.Size = c.cache.Len()
	stats.CalculateHitRate()
	return stats
}
