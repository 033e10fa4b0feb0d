package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/snow-ghost/featsel/core"
	"github.com/snow-ghost/featsel/pkg/cache"
)

// Metrics holds the Prometheus collectors for instance evaluation.
type Metrics struct {
	// Evaluation metrics
	EvaluationsTotal   *prometheus.CounterVec
	EvaluationDuration prometheus.Histogram
	Complexity         prometheus.Histogram

	// Score cache metrics
	CacheHits      prometheus.Gauge
	CacheMisses    prometheus.Gauge
	CacheSize      prometheus.Gauge
	CacheEvictions prometheus.Gauge
}

// NewMetrics registers the collectors on reg. A nil reg uses the default
// registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		EvaluationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "featsel_evaluations_total",
				Help: "Total number of instance evaluations",
			},
			[]string{"status"},
		),

		EvaluationDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "featsel_evaluation_duration_seconds",
				Help:    "Instance evaluation latency in seconds",
				Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12),
			},
		),

		Complexity: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "featsel_feature_set_size",
				Help:    "Number of features selected by evaluated instances",
				Buckets: prometheus.LinearBuckets(0, 4, 16),
			},
		),

		CacheHits: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "featsel_score_cache_hits",
				Help: "Score cache hits since start",
			},
		),

		CacheMisses: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "featsel_score_cache_misses",
				Help: "Score cache misses since start",
			},
		),

		CacheSize: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "featsel_score_cache_entries",
				Help: "Feature sets currently held in the score cache",
			},
		),

		CacheEvictions: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "featsel_score_cache_evictions",
				Help: "Score cache evictions since start",
			},
		),
	}
}

// RecordEvaluation records one evaluation outcome
func (m *Metrics) RecordEvaluation(complexity int, duration time.Duration, err error) {
	m.EvaluationDuration.Observe(duration.Seconds())
	if err != nil {
		m.EvaluationsTotal.WithLabelValues("error").Inc()
		return
	}
	m.EvaluationsTotal.WithLabelValues("ok").Inc()
	m.Complexity.Observe(float64(complexity))
}

// ObserveCache publishes a score cache snapshot
func (m *Metrics) ObserveCache(stats cache.CacheStats) {
	m.CacheHits.Set(float64(stats.Hits))
	m.CacheMisses.Set(float64(stats.Misses))
	m.CacheSize.Set(float64(stats.Size))
	m.CacheEvictions.Set(float64(stats.Evictions))
}

type instrumented[S any] struct {
	next    core.InstanceScorer[S]
	metrics *Metrics
}

// Instrument wraps scorer so every evaluation is counted and timed. Results
// and errors pass through untouched.
func Instrument[S any](scorer core.InstanceScorer[S], m *Metrics) core.InstanceScorer[S] {
	return &instrumented[S]{next: scorer, metrics: m}
}

func (i *instrumented[S]) Evaluate(inst *core.Instance) (core.CompositeScore[S], error) {
	start := time.Now()
	cs, err := i.next.Evaluate(inst)
	i.metrics.RecordEvaluation(cs.Complexity, time.Since(start), err)
	return cs, err
}
