// Package braketest generates synthetic brake test measurements.
//
// Brake pressure and brake force are generated as linear functions of
// measurement time, clipped once either signal reaches its physical
// maximum, with Gaussian noise added on top.
package braketest

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Max values for brake pressure and force, based on real tests.
const (
	MaxPressure = 3.7  // bar
	MaxForce    = 45.0 // kN
)

// Default noise sigmas. The actual perturbation of a sample is the sigma
// scaled by the square root of the signal value.
const (
	DefaultPressStd = 0.01
	DefaultForceStd = 0.1
)

// MinSamples is the smallest run the derived indices support: the pressure
// slope needs N-NRoll-1 > 0 and the force delay needs at least one sample.
const MinSamples = 12

// Test holds one synthetic brake test run.
//
// NRoll samples at the start measure rolling resistance only. ForceDelay
// further samples pass before brake force starts rising, which determines
// the wake-up pressure. Cutoff is the first sample where either signal
// reached its maximum; both series are held flat from there on.
type Test struct {
	N          int
	NRoll      int
	ForceDelay int

	PressK  float64 // pressure slope, bar per sample
	ForceK  float64 // force slope, kN per sample
	RollRes float64 // rolling resistance, kN

	PressStd float64
	ForceStd float64

	Time   *mat.VecDense
	Press  *mat.VecDense
	Force  *mat.VecDense
	Cutoff int

	src rand.Source
}

// New draws braking characteristics for a run of n samples. The pressure
// slope is chosen so the wake-up pressure lands between 0.2 and 1 bar and
// the run still reaches MaxPressure near its end; the force slope is a
// random multiple of it. The same seed reproduces the same run.
func New(n int, seed uint64) (*Test, error) {
	if n < MinSamples {
		return nil, fmt.Errorf("braketest: need at least %d samples, got %d", MinSamples, n)
	}
	nRoll := int(math.Round(float64(n) / 6))
	t := &Test{
		N:          n,
		NRoll:      nRoll,
		ForceDelay: int(math.Round(float64(nRoll) / 2)),
		PressStd:   DefaultPressStd,
		ForceStd:   DefaultForceStd,
		src:        rand.NewSource(seed),
	}

	u := distuv.Uniform{Min: 0, Max: 1, Src: t.src}
	minK := MaxPressure / float64(n-t.NRoll-1)
	maxK := 1.0 / float64(t.ForceDelay)
	t.PressK = minK + u.Rand()*(maxK-minK)
	t.ForceK = t.PressK * (3 + u.Rand()*13)
	t.RollRes = 2 + u.Rand()*8
	return t, nil
}

// Generate fills the run: ideal ramps, cutoff, then noise.
func (t *Test) Generate() {
	t.GenerateIdeal()
	t.AddNoise()
}

// GenerateIdeal fills the noise-free series and applies the cutoff rule.
// Pressure is zero through the rolling-resistance window and ramps linearly
// after it; force sits at the rolling resistance until the force delay has
// passed and then ramps. Whichever series first exceeds its maximum clips
// both series flat at the crossing index, ties preferring the
// pressure-limited cutoff. If neither crosses, the cutoff is N.
func (t *Test) GenerateIdeal() {
	time := make([]float64, t.N)
	press := make([]float64, t.N)
	force := make([]float64, t.N)
	for i := range time {
		time[i] = float64(i)
	}
	for i := t.NRoll; i < t.N; i++ {
		press[i] = t.PressK * float64(i-t.NRoll)
	}
	wake := t.NRoll + t.ForceDelay
	for i := range force {
		force[i] = t.RollRes
	}
	for i := wake; i < t.N; i++ {
		force[i] = t.RollRes + t.ForceK*float64(i-wake)
	}

	t.Cutoff = t.N
	pressLim := countBelow(press, MaxPressure)
	forceLim := countBelow(force, MaxForce)
	if pressLim <= forceLim {
		if pressLim != t.N {
			t.Cutoff = pressLim
			holdFlat(press, pressLim)
			holdFlat(force, pressLim)
		}
	} else if forceLim != t.N {
		t.Cutoff = forceLim
		holdFlat(press, forceLim)
		holdFlat(force, forceLim)
	}

	t.Time = mat.NewVecDense(t.N, time)
	t.Press = mat.NewVecDense(t.N, press)
	t.Force = mat.NewVecDense(t.N, force)
}

// AddNoise perturbs the generated series with Gaussian noise scaled by the
// square root of the signal value. Pressure is left untouched inside the
// rolling-resistance window where it is identically zero.
func (t *Test) AddNoise() {
	nd := distuv.Normal{Mu: 0, Sigma: t.PressStd, Src: t.src}
	for i := t.NRoll; i < t.N; i++ {
		v := t.Press.AtVec(i)
		t.Press.SetVec(i, v+math.Sqrt(v)*nd.Rand())
	}
	nd.Sigma = t.ForceStd
	for i := 0; i < t.N; i++ {
		v := t.Force.AtVec(i)
		t.Force.SetVec(i, v+math.Sqrt(v)*nd.Rand())
	}
}

// WakeUpIndex is the sample at which brake force starts rising.
func (t *Test) WakeUpIndex() int { return t.NRoll + t.ForceDelay }

// WakeUpPressure is the pressure measured at the wake-up sample.
func (t *Test) WakeUpPressure() float64 { return t.Press.AtVec(t.WakeUpIndex()) }

func countBelow(vals []float64, limit float64) int {
	n := 0
	for _, v := range vals {
		if v < limit {
			n++
		}
	}
	return n
}

func holdFlat(vals []float64, from int) {
	for i := from + 1; i < len(vals); i++ {
		vals[i] = vals[from]
	}
}
