package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bump is -1 everywhere except on [0, 0.0004], where it is 1. A scan with
// step 0.5 brackets both of its edges, but no grid point sees it change sign
// for good.
func bump(x float64) float64 {
	if x >= 0 && x <= 0.0004 {
		return 1
	}
	return -1
}

var coarse = Domain{Min: -1, Max: 1, Step: 0.5}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []float64{1, 1.2}, dedupe([]float64{1.2, 1, 1.01}, 0.05))
	assert.Equal(t, []float64{1, 1.01, 1.2}, dedupe([]float64{1.2, 1, 1.01}, 0.005))
	assert.Nil(t, dedupe(nil, 0.05))
}

func TestFindRootsMergesWithinHalfStep(t *testing.T) {
	tuning := DefaultTuning()
	require.Len(t, tuning.signChanges(bump, coarse), 2)

	roots := tuning.findRoots(bump, coarse)
	require.Len(t, roots, 1, "edges 0.0004 apart are one root at step 0.5")
	assert.InDelta(t, 0, roots[0], 1e-5)
}

func TestInflectionNeedsSignChange(t *testing.T) {
	a := New()
	// bump returns to -1 on both sides of its roots.
	require.NotEmpty(t, a.tuning.findRoots(bump, coarse))
	assert.Empty(t, a.inflectionXs(bump, coarse))

	line := func(x float64) float64 { return x }
	xs := a.inflectionXs(line, coarse)
	require.Len(t, xs, 1)
	assert.InDelta(t, 0, xs[0], 1e-6)
}

func TestCheckPoints(t *testing.T) {
	pts := checkPoints(Domain{Min: 0, Max: 6, Step: 1})
	assert.InDeltaSlice(t, []float64{1, 2, 3, 4, 5}, pts, 1e-12)
}
