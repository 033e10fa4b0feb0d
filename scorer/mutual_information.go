package scorer

import (
	"fmt"
	"math"

	"github.com/snow-ghost/featsel/core"
)

// MutualInformation scores a feature set by the mutual information, in
// bits, between the selected columns and the target.
//
// The table is only read, so one scorer may serve concurrent evaluations.
type MutualInformation struct {
	table *Table
	hy    float64
}

var _ core.FeatureSetScorer[float64] = (*MutualInformation)(nil)

func NewMutualInformation(t *Table) *MutualInformation {
	var pos int
	for _, y := range t.Target {
		if y {
			pos++
		}
	}
	return &MutualInformation{table: t, hy: binaryEntropy(pos, len(t.Target))}
}

// Score returns H(Y) - H(Y | X_fs). The empty set scores 0.
func (m *MutualInformation) Score(fs core.FeatureSet) (float64, error) {
	for _, f := range fs {
		if f < 0 || f >= m.table.NumFeatures() {
			return 0, fmt.Errorf("%w: %d (features %d)", ErrFeatureOutOfRange, f, m.table.NumFeatures())
		}
	}

	// rows grouped by their projection onto fs: [negatives, positives]
	groups := make(map[string]*[2]int)
	key := make([]byte, len(fs))
	for r, row := range m.table.Rows {
		for i, f := range fs {
			if row[f] {
				key[i] = '1'
			} else {
				key[i] = '0'
			}
		}
		g, ok := groups[string(key)]
		if !ok {
			g = new([2]int)
			groups[string(key)] = g
		}
		if m.table.Target[r] {
			g[1]++
		} else {
			g[0]++
		}
	}

	n := float64(len(m.table.Rows))
	var conditional float64
	for _, g := range groups {
		size := g[0] + g[1]
		conditional += float64(size) / n * binaryEntropy(g[1], size)
	}
	mi := m.hy - conditional
	if mi < 0 {
		mi = 0
	}
	return mi, nil
}

// binaryEntropy is the entropy in bits of pos successes among n.
func binaryEntropy(pos, n int) float64 {
	if n == 0 || pos == 0 || pos == n {
		return 0
	}
	p := float64(pos) / float64(n)
	return -p*math.Log2(p) - (1-p)*math.Log2(1-p)
}
