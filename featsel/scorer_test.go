package featsel

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/snow-ghost/featsel/core"
	"github.com/snow-ghost/featsel/fieldset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	mu      sync.Mutex
	level   core.Level
	checks  int
	entries []string
}

func (l *recordingLogger) Enabled(level core.Level) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.checks++
	return level <= l.level
}

func (l *recordingLogger) Log(level core.Level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, msg)
}

// countingLayout records how often the diagnostic form is built.
type countingLayout struct {
	*fieldset.Layout
	streams atomic.Int32
}

func (c *countingLayout) Stream(inst *core.Instance) string {
	c.streams.Add(1)
	return c.Layout.Stream(inst)
}

func fixedScores(scores map[string]float64) core.FeatureSetScorer[float64] {
	return core.FeatureSetScorerFunc[float64](func(fs core.FeatureSet) (float64, error) {
		s, ok := scores[fs.String()]
		if !ok {
			return 0, fmt.Errorf("no score for %s", fs)
		}
		return s, nil
	})
}

func TestScorerEvaluateExample(t *testing.T) {
	layout, err := fieldset.New(4)
	require.NoError(t, err)
	inst, err := layout.Parse("1010")
	require.NoError(t, err)

	s := NewScorer(fixedScores(map[string]float64{"{0,2}": 0.75}), layout)
	cs, err := s.Evaluate(inst)
	require.NoError(t, err)
	assert.Equal(t, core.CompositeScore[float64]{Score: 0.75, Complexity: 2}, cs)
}

func TestScorerComplexityMatchesDecodedSet(t *testing.T) {
	layout, err := fieldset.New(12)
	require.NoError(t, err)

	var seen []core.FeatureSet
	s := NewScorer[int](core.FeatureSetScorerFunc[int](func(fs core.FeatureSet) (int, error) {
		seen = append(seen, fs)
		return 1, nil
	}), layout)

	for _, bits := range []string{"000000000000", "111111111111", "100000000001", "010101010101"} {
		inst, err := layout.Parse(bits)
		require.NoError(t, err)
		cs, err := s.Evaluate(inst)
		require.NoError(t, err)
		assert.Equal(t, Decode(layout, inst).Len(), cs.Complexity, bits)
	}
	require.Len(t, seen, 4)
	assert.Empty(t, seen[0])
	assert.Len(t, seen[1], 12)
}

func TestScorerIsPure(t *testing.T) {
	layout, err := fieldset.New(5)
	require.NoError(t, err)
	inst, err := layout.Parse("11001")
	require.NoError(t, err)
	before := inst.Clone()

	s := NewScorer[float64](core.FeatureSetScorerFunc[float64](func(fs core.FeatureSet) (float64, error) {
		return float64(fs.Len()) / 10, nil
	}), layout)

	first, err := s.Evaluate(inst)
	require.NoError(t, err)
	second, err := s.Evaluate(inst)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.True(t, before.Equal(inst), "instance bits changed")
}

func TestScorerPropagatesErrorUnchanged(t *testing.T) {
	layout, err := fieldset.New(3)
	require.NoError(t, err)
	inst, err := layout.Parse("011")
	require.NoError(t, err)

	boom := errors.New("objective failed")
	s := NewScorer[float64](core.FeatureSetScorerFunc[float64](func(core.FeatureSet) (float64, error) {
		return 0, boom
	}), layout)

	cs, err := s.Evaluate(inst)
	assert.Same(t, boom, err)
	assert.Zero(t, cs)
}

func TestScorerLogsAtFineLevel(t *testing.T) {
	base, err := fieldset.New(4)
	require.NoError(t, err)
	layout := &countingLayout{Layout: base}
	inst, err := base.Parse("1010")
	require.NoError(t, err)

	logger := &recordingLogger{level: core.LevelFine}
	s := NewScorer(fixedScores(map[string]float64{"{0,2}": 0.75}), layout, WithLogger(logger))

	_, err = s.Evaluate(inst)
	require.NoError(t, err)
	require.Len(t, logger.entries, 1)
	assert.Equal(t, "featsel scorer - evaluate instance: [1010] [score=0.75, complexity=2]", logger.entries[0])
	assert.Equal(t, int32(1), layout.streams.Load())
}

func TestScorerSkipsFormattingBelowFine(t *testing.T) {
	base, err := fieldset.New(4)
	require.NoError(t, err)
	layout := &countingLayout{Layout: base}
	inst, err := base.Parse("1010")
	require.NoError(t, err)

	logger := &recordingLogger{level: core.LevelDebug}
	s := NewScorer(fixedScores(map[string]float64{"{0,2}": 0.75}), layout, WithLogger(logger))

	cs, err := s.Evaluate(inst)
	require.NoError(t, err)
	assert.Equal(t, 2, cs.Complexity)
	assert.Equal(t, 1, logger.checks)
	assert.Empty(t, logger.entries)
	assert.Zero(t, layout.streams.Load())
}

func TestScorerDoesNotLogFailures(t *testing.T) {
	layout, err := fieldset.New(2)
	require.NoError(t, err)
	logger := &recordingLogger{level: core.LevelFine}
	s := NewScorer(fixedScores(nil), layout, WithLogger(logger))

	_, err = s.Evaluate(layout.NewInstance())
	require.Error(t, err)
	assert.Empty(t, logger.entries)
}

func TestScorerConcurrentEvaluate(t *testing.T) {
	layout, err := fieldset.New(16)
	require.NoError(t, err)
	s := NewScorer[int](core.FeatureSetScorerFunc[int](func(fs core.FeatureSet) (int, error) {
		sum := 0
		for _, f := range fs {
			sum += f
		}
		return sum, nil
	}), layout)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			inst, err := layout.FromFeatureSet(core.FeatureSet{i % 16})
			if !assert.NoError(t, err) {
				return
			}
			cs, err := s.Evaluate(inst)
			assert.NoError(t, err)
			assert.Equal(t, core.CompositeScore[int]{Score: i % 16, Complexity: 1}, cs)
		}(i)
	}
	wg.Wait()
}
