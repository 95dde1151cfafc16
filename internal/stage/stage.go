// Package stage drives the four display stages of a brake test run and the
// calculations behind them. The frontends only draw what this package
// computes.
package stage

import (
	"fmt"
	"time"

	"github.com/Rotaro/BrakeCalculations/internal/braketest"
	"github.com/Rotaro/BrakeCalculations/internal/regress"
)

// Status is the active display stage. Any key press advances the cycle
// Idle -> RawData -> SixBar -> ZRatio -> Idle.
type Status int

const (
	Idle Status = iota + 1
	RawData
	SixBar
	ZRatio
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case RawData:
		return "raw data"
	case SixBar:
		return "6 bar extrapolation"
	case ZRatio:
		return "z ratio"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Next returns the stage that follows s in the display cycle.
func (s Status) Next() Status {
	if s == ZRatio {
		return Idle
	}
	return s + 1
}

// Interval is the frame pacing of the stage's animation.
func (s Status) Interval() time.Duration {
	if s == ZRatio {
		return 1500 * time.Millisecond
	}
	return 100 * time.Millisecond
}

// RawMarkers are the reference values overlaid near the end of the raw-data
// animation.
type RawMarkers struct {
	RollEnd        int     // last sample of the rolling-resistance window
	WakeUp         int     // sample where brake force starts rising
	Cutoff         int     // sample where a signal reached its maximum
	RollRes        float64 // rolling resistance F_rd, kN
	WakeUpPressure float64 // wake-up pressure p_w, bar
}

// Controller owns the display cycle and the line fit cached between the
// extrapolation stage and the z-ratio stage.
type Controller struct {
	Test *braketest.Test

	status Status
	fit    regress.Coeffs
	hasFit bool

	sixBar SixBarData
	z      ZData
}

func NewController(t *braketest.Test) *Controller {
	return &Controller{Test: t, status: Idle}
}

func (c *Controller) Status() Status { return c.status }

// Advance moves the controller to the next stage, computing the data that
// stage renders. A stage whose computation fails is not entered; the
// controller stays where it is and the caller decides what to show.
func (c *Controller) Advance() error {
	next := c.status.Next()
	switch next {
	case SixBar:
		d, err := ComputeSixBar(c.Test)
		if err != nil {
			return err
		}
		c.sixBar = d
		c.fit = d.Fit
		c.hasFit = true
	case ZRatio:
		if !c.hasFit {
			return fmt.Errorf("stage: no cached fit for z calculation")
		}
		d, err := ComputeZ(c.fit)
		if err != nil {
			return err
		}
		c.z = d
	}
	c.status = next
	return nil
}

// Reset returns the controller to the idle stage without touching the
// cached fit.
func (c *Controller) Reset() { c.status = Idle }

// Markers returns the raw-data overlay values.
func (c *Controller) Markers() RawMarkers {
	t := c.Test
	return RawMarkers{
		RollEnd:        t.NRoll,
		WakeUp:         t.WakeUpIndex(),
		Cutoff:         t.Cutoff,
		RollRes:        t.RollRes,
		WakeUpPressure: t.WakeUpPressure(),
	}
}

// SixBarData returns the extrapolation computed when the SixBar stage was
// entered.
func (c *Controller) SixBarData() SixBarData { return c.sixBar }

// Fit returns the line fit cached by the SixBar stage, if one exists.
func (c *Controller) Fit() (regress.Coeffs, bool) { return c.fit, c.hasFit }

// ZData returns the z curve computed when the ZRatio stage was entered.
func (c *Controller) ZData() ZData { return c.z }

// FrameCount is the number of animation frames the stage plays on this
// run's data. Frames are numbered from 0; the reveal stages overlay their
// annotations on the final frame.
func (c *Controller) FrameCount(s Status) int {
	switch s {
	case RawData:
		return c.Test.N - 2
	case SixBar:
		return len(c.sixBar.Press) - 2
	case ZRatio:
		return 4
	}
	return 0
}
