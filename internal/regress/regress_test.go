package regress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolyFit1RecoversExactLine(t *testing.T) {
	xs := []float64{0, 1, 2, 3, 4, 5}
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = 3*x + 2
	}
	c, err := PolyFit1(xs, ys)
	require.NoError(t, err)
	assert.InDelta(t, 3, c.A, 1e-9)
	assert.InDelta(t, 2, c.B, 1e-9)
}

func TestPolyFit1MinimizesResiduals(t *testing.T) {
	// Symmetric perturbation around y = x leaves the fit unchanged.
	xs := []float64{0, 1, 2, 3}
	ys := []float64{0.5, 0.5, 2.5, 2.5}
	c, err := PolyFit1(xs, ys)
	require.NoError(t, err)
	assert.InDelta(t, 0.8, c.A, 1e-9)
	assert.InDelta(t, 0.3, c.B, 1e-9)
}

func TestPolyFit1Errors(t *testing.T) {
	_, err := PolyFit1([]float64{1, 2}, []float64{1})
	assert.Error(t, err, "mismatched lengths")

	_, err = PolyFit1([]float64{1}, []float64{1})
	assert.Error(t, err, "single point")

	_, err = PolyFit1([]float64{2, 2, 2}, []float64{1, 2, 3})
	assert.Error(t, err, "all x equal is degenerate")
}

func TestLineThrough(t *testing.T) {
	c := LineThrough(0, 1, 2, 5)
	assert.InDelta(t, 2, c.A, 1e-12)
	assert.InDelta(t, 1, c.B, 1e-12)
	assert.InDelta(t, 7, c.Eval(3), 1e-12)

	// The corridor boundaries are defined through these points.
	u := LineThrough(0.2, 0, 5.5, 0.8)
	assert.InDelta(t, 0, u.Eval(0.2), 1e-12)
	assert.InDelta(t, 0.8, u.Eval(5.5), 1e-12)
}

func TestLinspace(t *testing.T) {
	xs := Linspace(0, 6, 4)
	assert.Equal(t, []float64{0, 2, 4, 6}, xs)

	xs = Linspace(1, 1, 3)
	assert.Equal(t, []float64{1, 1, 1}, xs)

	xs = Linspace(5, 2, 1)
	assert.Equal(t, []float64{5}, xs)

	xs = Linspace(0, 6, 100)
	require.Len(t, xs, 100)
	assert.InDelta(t, 0, xs[0], 1e-12)
	assert.InDelta(t, 6, xs[99], 1e-12)
}

func TestEvalAll(t *testing.T) {
	c := Coeffs{A: -1, B: 4}
	ys := c.EvalAll([]float64{0, 1, 2})
	assert.Equal(t, []float64{4, 3, 2}, ys)
}
