package core

// PenalizedFitness ranks composite scores as the raw score minus a penalty
// per selected feature.
type PenalizedFitness struct {
	ComplexityPenalty float64
}

func NewPenalizedFitness(complexityPenalty float64) *PenalizedFitness {
	return &PenalizedFitness{ComplexityPenalty: complexityPenalty}
}

func (p *PenalizedFitness) Fitness(cs CompositeScore[float64]) float64 {
	return cs.Score - p.ComplexityPenalty*float64(cs.Complexity)
}

// Better reports whether a ranks strictly above b.
func (p *PenalizedFitness) Better(a, b CompositeScore[float64]) bool {
	fa, fb := p.Fitness(a), p.Fitness(b)
	if fa != fb {
		return fa > fb
	}
	// equal fitness: the smaller subset wins
	return a.Complexity < b.Complexity
}
