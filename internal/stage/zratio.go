package stage

import (
	"fmt"

	"github.com/Rotaro/BrakeCalculations/internal/regress"
)

// TargetZ is the z value the extrapolated brake force is normalized to at
// 6 bar. The axle weight is unknown, so z is simply forced to reach this
// ratio at the top of the pressure range.
const TargetZ = 0.8

// ZData is the normalized brake ratio curve and the regulatory corridors it
// is judged against.
type ZData struct {
	X []float64 // linspace(0, 6, 4), bar
	Z []float64 // normalized so the maximum maps to TargetZ

	// Scale maps raw extrapolated force to z. Frontends use it to evaluate
	// the z curve on a denser grid than X.
	Scale float64

	Unloaded Corridor
	Loaded   Corridor
}

// ComputeZ evaluates the cached extrapolation fit across the pressure range
// and normalizes it to TargetZ.
func ComputeZ(fit regress.Coeffs) (ZData, error) {
	d := ZData{
		X:        regress.Linspace(0, 6, 4),
		Unloaded: UnloadedCorridor(),
		Loaded:   LoadedCorridor(),
	}
	ys := fit.EvalAll(d.X)
	maxY := ys[0]
	for _, y := range ys[1:] {
		if y > maxY {
			maxY = y
		}
	}
	if maxY <= 0 {
		return ZData{}, fmt.Errorf("stage: extrapolated brake force is not positive, cannot normalize z")
	}
	d.Scale = TargetZ / maxY
	d.Z = make([]float64, len(ys))
	for i, y := range ys {
		d.Z[i] = y * d.Scale
	}
	return d, nil
}

// Corridor is an acceptance band for z over brake pressure: a straight
// upper boundary and a piecewise-linear lower boundary.
type Corridor struct {
	Upper  regress.Coeffs
	LowerX []float64
	LowerY []float64
}

// LowerAt evaluates the lower boundary at pressure x, interpolating between
// the polyline points. Below the first point the boundary is zero; beyond
// the last it stays at the last value.
func (c Corridor) LowerAt(x float64) float64 {
	if len(c.LowerX) == 0 || x <= c.LowerX[0] {
		return 0
	}
	for i := 1; i < len(c.LowerX); i++ {
		if x <= c.LowerX[i] {
			return regress.LineThrough(c.LowerX[i-1], c.LowerY[i-1], c.LowerX[i], c.LowerY[i]).Eval(x)
		}
	}
	return c.LowerY[len(c.LowerY)-1]
}

// UnloadedCorridor is the acceptance band for an unloaded vehicle.
func UnloadedCorridor() Corridor {
	return Corridor{
		Upper:  regress.LineThrough(0.2, 0, 5.5, TargetZ),
		LowerX: []float64{1.0, 4.5, 7.5},
		LowerY: []float64{0, 0.4, 0.65},
	}
}

// LoadedCorridor is the acceptance band for a loaded vehicle.
func LoadedCorridor() Corridor {
	return Corridor{
		Upper:  regress.LineThrough(0.2, 0, 7.5, TargetZ),
		LowerX: []float64{1.0, 4.5, 7.5},
		LowerY: []float64{0, 0.35, 0.575},
	}
}
