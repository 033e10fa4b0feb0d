package cache

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// Deduplicator collapses concurrent computations of the same key.
type Deduplicator[V any] struct {
	group singleflight.Group
	mu    sync.Mutex
	stats DedupStats
}

// DedupStats represents deduplication statistics
type DedupStats struct {
	Requests     int64 `json:"requests"`
	Deduplicated int64 `json:"deduplicated"`
}

// NewDeduplicator creates a new deduplicator
func NewDeduplicator[V any]() *Deduplicator[V] {
	return &Deduplicator[V]{}
}

// Do runs fn once per key among concurrent callers; every caller receives
// the same value and error.
func (d *Deduplicator[V]) Do(key CacheKey, fn func() (V, error)) (V, error) {
	result, err, shared := d.group.Do(string(key), func() (interface{}, error) {
		return fn()
	})

	d.mu.Lock()
	d.stats.Requests++
	if shared {
		d.stats.Deduplicated++
	}
	d.mu.Unlock()

	v, _ := result.(V)
	return v, err
}

// Stats returns deduplication statistics
func (d *Deduplicator[V]) Stats() DedupStats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats
}

// GetDedupRate calculates the deduplication rate
func (d *Deduplicator[V]) GetDedupRate() float64 {
	stats := d.Stats()
	if stats.Requests == 0 {
		return 0.0
	}
	return float64(stats.Deduplicated) / float64(stats.Requests)
}
