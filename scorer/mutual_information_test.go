package scorer

import (
	"strings"
	"testing"

	"github.com/snow-ghost/featsel/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadXOR(t *testing.T) *Table {
	t.Helper()
	table, err := LoadCSV(strings.NewReader(xorCSV), "")
	require.NoError(t, err)
	return table
}

func TestMutualInformationXOR(t *testing.T) {
	mi := NewMutualInformation(loadXOR(t))

	cases := []struct {
		name string
		fs   core.FeatureSet
		want float64
	}{
		{"empty", nil, 0},
		{"single a", core.FeatureSet{0}, 0},
		{"single b", core.FeatureSet{1}, 0},
		{"both inputs", core.FeatureSet{0, 1}, 1},
		{"inputs and noise", core.FeatureSet{0, 1, 2}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := mi.Score(tc.fs)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestMutualInformationPartial(t *testing.T) {
	// out == a for three of four rows
	table, err := LoadCSV(strings.NewReader("a,out\n0,0\n0,0\n1,1\n1,0\n"), "")
	require.NoError(t, err)

	got, err := NewMutualInformation(table).Score(core.FeatureSet{0})
	require.NoError(t, err)
	// H(Y) = H(1/4); H(Y|a) = 1/2 * H(1/2) = 0.5
	assert.InDelta(t, binaryEntropy(1, 4)-0.5, got, 1e-9)
	assert.Greater(t, got, 0.0)
}

func TestMutualInformationOutOfRange(t *testing.T) {
	mi := NewMutualInformation(loadXOR(t))
	_, err := mi.Score(core.FeatureSet{3})
	assert.ErrorIs(t, err, ErrFeatureOutOfRange)
}

func TestBinaryEntropy(t *testing.T) {
	assert.Equal(t, 0.0, binaryEntropy(0, 0))
	assert.Equal(t, 0.0, binaryEntropy(4, 4))
	assert.InDelta(t, 1.0, binaryEntropy(2, 4), 1e-12)
}
