package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/snow-ghost/featsel/core"
	"github.com/snow-ghost/featsel/featsel"
	"github.com/snow-ghost/featsel/fieldset"
	"github.com/snow-ghost/featsel/scorer"
	"github.com/snow-ghost/featsel/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPopulation(t *testing.T) {
	layout, err := fieldset.New(3)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "pop.txt")
	require.NoError(t, os.WriteFile(path, []byte("# header\n110\n\n001\n"), 0o644))

	pop, err := loadPopulation(layout, []string{"100"}, path, 4, 0.5, 7)
	require.NoError(t, err)
	require.Len(t, pop, 7)
	assert.Equal(t, core.FeatureSet{0}, featsel.Decode(layout, pop[0]))
	assert.Equal(t, core.FeatureSet{0, 1}, featsel.Decode(layout, pop[1]))
	assert.Equal(t, core.FeatureSet{2}, featsel.Decode(layout, pop[2]))
	for _, inst := range pop {
		assert.True(t, layout.Compatible(inst))
	}

	again, err := loadPopulation(layout, nil, "", 4, 0.5, 7)
	require.NoError(t, err)
	for i := range again {
		assert.True(t, again[i].Equal(pop[3+i]), "random instances must be reproducible")
	}
}

func TestLoadPopulationRejectsMalformed(t *testing.T) {
	layout, err := fieldset.New(3)
	require.NoError(t, err)
	_, err = loadPopulation(layout, []string{"10"}, "", 0, 0, 0)
	assert.ErrorIs(t, err, fieldset.ErrMalformedInstance)
}

func TestPrintRanked(t *testing.T) {
	table, err := scorer.LoadCSV(strings.NewReader("a,b,out\n0,0,0\n0,1,1\n1,0,1\n1,1,0\n"), "")
	require.NoError(t, err)
	layout, err := fieldset.New(table.NumFeatures())
	require.NoError(t, err)

	s := featsel.NewScorer[float64](scorer.NewMutualInformation(table), layout)
	pop, err := loadPopulation(layout, []string{"11", "10"}, "", 0, 0, 0)
	require.NoError(t, err)

	var scored []worker.Scored[float64]
	for i, inst := range pop {
		cs, err := s.Evaluate(inst)
		require.NoError(t, err)
		scored = append(scored, worker.Scored[float64]{Index: i, Instance: inst, Score: cs})
	}
	fitness := core.NewPenalizedFitness(0)

	var buf bytes.Buffer
	printRanked(&buf, layout, table, worker.Rank(scored, fitness.Better), fitness, 0)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "[11] {a,b}")
	assert.Contains(t, lines[2], "[10] {a}")
}
