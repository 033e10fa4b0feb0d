package core

import "iter"

// FieldLayout describes how the bits of an Instance map onto fields.
type FieldLayout interface {
	FieldCount() int
	// Bits yields one boolean per field, in field order.
	Bits(inst *Instance) iter.Seq[bool]
	Stream(inst *Instance) string
}

// FeatureSetScorer rates a subset of features. S is opaque to this module.
type FeatureSetScorer[S any] interface {
	Score(fs FeatureSet) (S, error)
}

// FeatureSetScorerFunc lets an ordinary function act as a FeatureSetScorer.
type FeatureSetScorerFunc[S any] func(fs FeatureSet) (S, error)

func (f FeatureSetScorerFunc[S]) Score(fs FeatureSet) (S, error) { return f(fs) }

// InstanceScorer is the contract an optimizer loop evaluates instances with.
type InstanceScorer[S any] interface {
	Evaluate(inst *Instance) (CompositeScore[S], error)
}

// Logger is an optional diagnostics sink. Callers check Enabled before
// building a message.
type Logger interface {
	Enabled(level Level) bool
	Log(level Level, msg string)
}
