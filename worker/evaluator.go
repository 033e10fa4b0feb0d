package worker

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"sync/atomic"
	"time"

	"github.com/snow-ghost/featsel/core"
	"github.com/snow-ghost/featsel/pkg/tracing"
	"golang.org/x/sync/errgroup"
)

// Scored is one evaluated member of a population.
type Scored[S any] struct {
	Index    int // position in the evaluated population
	Instance *core.Instance
	Score    core.CompositeScore[S]
}

// Evaluator scores whole populations with a bounded number of goroutines.
type Evaluator[S any] struct {
	scorer  core.InstanceScorer[S]
	workers int
	tracer  *tracing.Tracer
	logger  *slog.Logger
}

type evaluatorOptions struct {
	workers int
	tracer  *tracing.Tracer
	logger  *slog.Logger
}

// EvaluatorOption configures an Evaluator.
type EvaluatorOption func(*evaluatorOptions)

// WithWorkers bounds concurrent evaluations. Values below 1 mean GOMAXPROCS.
func WithWorkers(n int) EvaluatorOption {
	return func(o *evaluatorOptions) { o.workers = n }
}

func WithTracer(t *tracing.Tracer) EvaluatorOption {
	return func(o *evaluatorOptions) { o.tracer = t }
}

func WithLogger(l *slog.Logger) EvaluatorOption {
	return func(o *evaluatorOptions) { o.logger = l }
}

// NewEvaluator builds an Evaluator. The scorer must be safe for concurrent
// use when more than one worker is configured.
func NewEvaluator[S any](scorer core.InstanceScorer[S], opts ...EvaluatorOption) *Evaluator[S] {
	var o evaluatorOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers < 1 {
		o.workers = runtime.GOMAXPROCS(0)
	}
	if o.tracer == nil {
		o.tracer, _ = tracing.NewTracer(tracing.Config{})
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return &Evaluator[S]{scorer: scorer, workers: o.workers, tracer: o.tracer, logger: o.logger}
}

// Workers returns the concurrency bound.
func (e *Evaluator[S]) Workers() int { return e.workers }

// EvaluatePopulation scores every instance of pop and returns the results in
// input order. The first failure stops the batch; its error keeps the
// scorer's error reachable through errors.Is. A context that ends after the
// last instance was scored does not discard the results.
func (e *Evaluator[S]) EvaluatePopulation(ctx context.Context, pop []*core.Instance) ([]Scored[S], error) {
	ctx, span := e.tracer.StartPopulationSpan(ctx, len(pop), e.workers)
	defer span.End()

	start := time.Now()
	e.logger.DebugContext(ctx, "evaluating population", "size", len(pop), "workers", e.workers)

	out := make([]Scored[S], len(pop))
	var filled atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, inst := range pop {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			cs, err := e.scorer.Evaluate(inst)
			if err != nil {
				return fmt.Errorf("instance %d: %w", i, err)
			}
			out[i] = Scored[S]{Index: i, Instance: inst, Score: cs}
			filled.Add(1)
			return nil
		})
	}

	err := g.Wait()
	if err == nil && filled.Load() < int64(len(pop)) {
		err = context.Cause(ctx)
	}
	duration := time.Since(start)
	tracing.RecordSpanDuration(span, duration)
	if err != nil {
		tracing.RecordSpanError(span, err)
		e.logger.WarnContext(ctx, "population evaluation failed",
			"size", len(pop), "error", err, "trace_id", tracing.GetTraceID(ctx))
		return nil, err
	}

	tracing.RecordSpanSuccess(span)
	e.logger.DebugContext(ctx, "population evaluated", "size", len(pop), "duration_ms", duration.Milliseconds())
	return out, nil
}

// Rank returns a copy of scored ordered best first. Entries that better
// does not separate keep their relative order.
func Rank[S any](scored []Scored[S], better func(a, b core.CompositeScore[S]) bool) []Scored[S] {
	out := slices.Clone(scored)
	slices.SortStableFunc(out, func(a, b Scored[S]) int {
		switch {
		case better(a.Score, b.Score):
			return -1
		case better(b.Score, a.Score):
			return 1
		default:
			return 0
		}
	})
	return out
}
