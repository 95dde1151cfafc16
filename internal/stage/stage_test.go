package stage

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/Rotaro/BrakeCalculations/internal/braketest"
	"github.com/Rotaro/BrakeCalculations/internal/regress"
)

func generated(t *testing.T, n int, seed uint64) *braketest.Test {
	t.Helper()
	bt, err := braketest.New(n, seed)
	require.NoError(t, err)
	bt.Generate()
	return bt
}

func TestStatusCycle(t *testing.T) {
	assert.Equal(t, RawData, Idle.Next())
	assert.Equal(t, SixBar, RawData.Next())
	assert.Equal(t, ZRatio, SixBar.Next())
	assert.Equal(t, Idle, ZRatio.Next())
}

func TestStatusInterval(t *testing.T) {
	assert.Equal(t, 100*time.Millisecond, RawData.Interval())
	assert.Equal(t, 100*time.Millisecond, SixBar.Interval())
	assert.Equal(t, 1500*time.Millisecond, ZRatio.Interval())
}

func TestControllerCycle(t *testing.T) {
	bt := generated(t, 60, 11)
	c := NewController(bt)
	assert.Equal(t, Idle, c.Status())
	_, ok := c.Fit()
	assert.False(t, ok)

	require.NoError(t, c.Advance())
	assert.Equal(t, RawData, c.Status())
	assert.Equal(t, bt.N-2, c.FrameCount(RawData))

	require.NoError(t, c.Advance())
	assert.Equal(t, SixBar, c.Status())
	fit, ok := c.Fit()
	require.True(t, ok)
	assert.Equal(t, c.SixBarData().Fit, fit)

	require.NoError(t, c.Advance())
	assert.Equal(t, ZRatio, c.Status())

	require.NoError(t, c.Advance())
	assert.Equal(t, Idle, c.Status())

	// The fit survives the wrap to idle.
	_, ok = c.Fit()
	assert.True(t, ok)
}

func TestControllerMarkers(t *testing.T) {
	bt := generated(t, 60, 3)
	mk := NewController(bt).Markers()
	assert.Equal(t, bt.NRoll, mk.RollEnd)
	assert.Equal(t, bt.WakeUpIndex(), mk.WakeUp)
	assert.Equal(t, bt.Cutoff, mk.Cutoff)
	assert.Equal(t, bt.RollRes, mk.RollRes)
	assert.Equal(t, bt.WakeUpPressure(), mk.WakeUpPressure)
}

func TestComputeSixBar(t *testing.T) {
	bt := generated(t, 60, 5)
	d, err := ComputeSixBar(bt)
	require.NoError(t, err)

	assert.Len(t, d.Press, bt.Cutoff-bt.WakeUpIndex())
	assert.True(t, sort.Float64sAreSorted(d.Press), "window must be sorted by pressure")
	require.Len(t, d.FitX, 100)
	require.Len(t, d.FitY, 100)
	assert.InDelta(t, d.Fit.Eval(6), d.FitY[99], 1e-9)

	// Rolling resistance is removed, so the fitted line should pass near
	// the origin region rather than near RollRes.
	assert.Less(t, d.Fit.B, bt.RollRes)
}

func TestComputeSixBarWindowTooSmall(t *testing.T) {
	bt := &braketest.Test{
		N: 20, NRoll: 3, ForceDelay: 2, Cutoff: 6,
		Press: mat.NewVecDense(20, nil),
		Force: mat.NewVecDense(20, nil),
	}
	// Window [5, 6) has a single sample.
	_, err := ComputeSixBar(bt)
	assert.Error(t, err)
}

func TestComputeSixBarDegeneratePressure(t *testing.T) {
	press := make([]float64, 12)
	force := make([]float64, 12)
	for i := range press {
		press[i] = 1.5
		force[i] = float64(i)
	}
	bt := &braketest.Test{
		N: 12, NRoll: 2, ForceDelay: 1, Cutoff: 12,
		Press: mat.NewVecDense(12, press),
		Force: mat.NewVecDense(12, force),
	}
	_, err := ComputeSixBar(bt)
	assert.Error(t, err, "constant pressure cannot be fitted")
}

func TestComputeZ(t *testing.T) {
	d, err := ComputeZ(regress.Coeffs{A: 2, B: 0})
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 2, 4, 6}, d.X)
	require.Len(t, d.Z, 4)
	assert.InDelta(t, 0, d.Z[0], 1e-9)
	assert.InDelta(t, TargetZ/3, d.Z[1], 1e-9)
	assert.InDelta(t, 2*TargetZ/3, d.Z[2], 1e-9)
	assert.InDelta(t, TargetZ, d.Z[3], 1e-9)
	assert.InDelta(t, TargetZ/12, d.Scale, 1e-9)
}

func TestComputeZNonPositiveFit(t *testing.T) {
	_, err := ComputeZ(regress.Coeffs{A: 0, B: -1})
	assert.Error(t, err)

	_, err = ComputeZ(regress.Coeffs{A: -0.1, B: 0})
	assert.Error(t, err)
}

func TestZRatioWithoutFit(t *testing.T) {
	bt := generated(t, 60, 13)
	c := NewController(bt)
	c.status = SixBar // jumped here without computing a fit
	err := c.Advance()
	assert.Error(t, err)
	assert.Equal(t, SixBar, c.Status(), "failed advance must not change the stage")
}

func TestCorridors(t *testing.T) {
	u := UnloadedCorridor()
	assert.InDelta(t, 0, u.Upper.Eval(0.2), 1e-12)
	assert.InDelta(t, TargetZ, u.Upper.Eval(5.5), 1e-12)
	assert.InDelta(t, 0, u.LowerAt(0.5), 1e-12)
	assert.InDelta(t, 0, u.LowerAt(1.0), 1e-12)
	assert.InDelta(t, 0.2, u.LowerAt(2.75), 1e-12)
	assert.InDelta(t, 0.4, u.LowerAt(4.5), 1e-12)
	assert.InDelta(t, 0.65, u.LowerAt(7.5), 1e-12)
	assert.InDelta(t, 0.65, u.LowerAt(9.0), 1e-12)

	l := LoadedCorridor()
	assert.InDelta(t, 0, l.Upper.Eval(0.2), 1e-12)
	assert.InDelta(t, TargetZ, l.Upper.Eval(7.5), 1e-12)
	assert.InDelta(t, 0.35, l.LowerAt(4.5), 1e-12)
	assert.InDelta(t, 0.575, l.LowerAt(7.5), 1e-12)

	// The loaded band sits below the unloaded one over the active range.
	for _, x := range []float64{1, 2, 3, 4, 5} {
		assert.Less(t, l.Upper.Eval(x), u.Upper.Eval(x), "x=%v", x)
		assert.LessOrEqual(t, l.LowerAt(x), u.LowerAt(x), "x=%v", x)
	}
}

func TestFrameCounts(t *testing.T) {
	bt := generated(t, 60, 17)
	c := NewController(bt)
	require.NoError(t, c.Advance()) // raw data
	require.NoError(t, c.Advance()) // six bar

	assert.Equal(t, bt.N-2, c.FrameCount(RawData))
	assert.Equal(t, len(c.SixBarData().Press)-2, c.FrameCount(SixBar))
	assert.Equal(t, 4, c.FrameCount(ZRatio))
	assert.Equal(t, 0, c.FrameCount(Idle))
}
