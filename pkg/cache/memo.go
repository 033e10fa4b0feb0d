package cache

import (
	"fmt"

	"github.com/snow-ghost/featsel/core"
)

// Memo remembers the scores of recently seen feature sets. Populations
// revisit the same subsets often, and concurrent requests for one subset
// are computed once. Failed scorings are not remembered.
type Memo[S any] struct {
	scorer core.FeatureSetScorer[S]
	cache  *LRUCache[S]
	dedup  *Deduplicator[S]
}

var _ core.FeatureSetScorer[float64] = (*Memo[float64])(nil)

// NewMemo wraps scorer, which must be deterministic.
func NewMemo[S any](scorer core.FeatureSetScorer[S], config *CacheConfig) (*Memo[S], error) {
	cache, err := NewLRUCache[S](config)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}

	return &Memo[S]{
		scorer: scorer,
		cache:  cache,
		dedup:  NewDeduplicator[S](),
	}, nil
}

// Score returns the remembered score of fs, computing it on a miss.
func (m *Memo[S]) Score(fs core.FeatureSet) (S, error) {
	key := KeyFor(fs)
	if v, ok := m.cache.Get(key); ok {
		return v, nil
	}

	return m.dedup.Do(key, func() (S, error) {
		v, err := m.scorer.Score(fs)
		if err != nil {
			return v, err
		}
		m.cache.Set(key, v)
		return v, nil
	})
}

// Stats returns cache statistics
func (m *Memo[S]) Stats() CacheStats {
	return m.cache.Stats()
}

// DedupStats returns in-flight deduplication statistics
func (m *Memo[S]) DedupStats() DedupStats {
	return m.dedup.Stats()
}

// DedupRate is the share of misses that joined an in-flight computation.
func (m *Memo[S]) DedupRate() float64 {
	return m.dedup.GetDedupRate()
}
