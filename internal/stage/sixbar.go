package stage

import (
	"fmt"
	"sort"

	"github.com/Rotaro/BrakeCalculations/internal/braketest"
	"github.com/Rotaro/BrakeCalculations/internal/regress"
)

// SixBarData is the brake force extrapolated to 6 bar brake pressure:
// the active-braking window sorted by pressure, rolling resistance removed,
// and the least-squares line fitted to it.
type SixBarData struct {
	Press []float64 // sorted ascending, bar
	Force []float64 // force minus rolling resistance, same order, kN

	Fit  regress.Coeffs
	FitX []float64 // linspace(0, 6, 100)
	FitY []float64
}

// ComputeSixBar fits a line to force-minus-rolling-resistance against
// pressure over the window from the wake-up sample to the cutoff. An early
// cutoff can leave too few samples to fit; that is reported as an error.
func ComputeSixBar(t *braketest.Test) (SixBarData, error) {
	lo, hi := t.WakeUpIndex(), t.Cutoff
	if hi-lo < 2 {
		return SixBarData{}, fmt.Errorf("stage: extrapolation window [%d,%d) too small", lo, hi)
	}

	d := SixBarData{
		Press: make([]float64, hi-lo),
		Force: make([]float64, hi-lo),
	}
	for i := lo; i < hi; i++ {
		d.Press[i-lo] = t.Press.AtVec(i)
		d.Force[i-lo] = t.Force.AtVec(i) - t.RollRes
	}
	sort.Sort(byPressure{d.Press, d.Force})

	fit, err := regress.PolyFit1(d.Press, d.Force)
	if err != nil {
		return SixBarData{}, err
	}
	d.Fit = fit
	d.FitX = regress.Linspace(0, 6, 100)
	d.FitY = fit.EvalAll(d.FitX)
	return d, nil
}

// byPressure sorts the pressure/force pairs by pressure.
type byPressure struct {
	press []float64
	force []float64
}

func (b byPressure) Len() int           { return len(b.press) }
func (b byPressure) Less(i, j int) bool { return b.press[i] < b.press[j] }
func (b byPressure) Swap(i, j int) {
	b.press[i], b.press[j] = b.press[j], b.press[i]
	b.force[i], b.force[j] = b.force[j], b.force[i]
}
