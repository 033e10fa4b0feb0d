package featsel

import (
	"fmt"

	"github.com/snow-ghost/featsel/core"
)

// Scorer evaluates instances by decoding them into feature sets and scoring
// those with the wrapped FeatureSetScorer. Complexity is the number of
// selected features.
//
// A Scorer holds no mutable state; it is as safe for concurrent use as the
// scorer and layout it wraps.
type Scorer[S any] struct {
	scorer core.FeatureSetScorer[S]
	layout core.FieldLayout
	logger core.Logger
}

var _ core.InstanceScorer[float64] = (*Scorer[float64])(nil)

type options struct {
	logger core.Logger
}

// Option configures a Scorer.
type Option func(*options)

// WithLogger emits one diagnostic line per evaluation at core.LevelFine.
func WithLogger(l core.Logger) Option {
	return func(o *options) { o.logger = l }
}

func NewScorer[S any](scorer core.FeatureSetScorer[S], layout core.FieldLayout, opts ...Option) *Scorer[S] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Scorer[S]{scorer: scorer, layout: layout, logger: o.logger}
}

// Evaluate scores inst. Errors from the wrapped scorer are returned as is.
func (s *Scorer[S]) Evaluate(inst *core.Instance) (core.CompositeScore[S], error) {
	fs := Decode(s.layout, inst)
	raw, err := s.scorer.Score(fs)
	if err != nil {
		return core.CompositeScore[S]{}, err
	}
	cs := core.CompositeScore[S]{Score: raw, Complexity: fs.Len()}

	if s.logger != nil && s.logger.Enabled(core.LevelFine) {
		s.logger.Log(core.LevelFine, fmt.Sprintf("featsel scorer - evaluate instance: %s %s", s.layout.Stream(inst), cs))
	}
	return cs, nil
}
