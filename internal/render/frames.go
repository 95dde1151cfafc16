package render

import (
	"fmt"
	"image/color"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/Rotaro/BrakeCalculations/internal/stage"
)

// pressScale lifts the pressure curve onto the force axis. A chart here has
// a single y-axis, so pressure is drawn scaled and the legend says so.
const pressScale = 10.0

var (
	blue    = color.RGBA{B: 255, A: 255}
	red     = color.RGBA{R: 255, A: 255}
	green   = color.RGBA{G: 255, A: 255}
	magenta = color.RGBA{R: 255, B: 255, A: 255}
	black   = color.RGBA{A: 255}

	redFill   = color.NRGBA{R: 255, A: 100}
	greenFill = color.NRGBA{G: 255, A: 100}
)

func (e *exporter) renderRawFrame(num int, path string) error {
	t := e.ctrl.Test
	last := num == e.ctrl.FrameCount(stage.RawData)-1

	p := plot.New()
	p.Title.Text = "Brake pressure and force measurement"
	if last {
		p.Title.Text += "\n(end of measurement)"
	}
	p.X.Label.Text = "time (a.u.)"
	p.Y.Label.Text = fmt.Sprintf("Force (kN), Pressure (bar x%.0f)", pressScale)
	p.X.Min, p.X.Max = 0, float64(t.N-1)
	p.Y.Min, p.Y.Max = 0, mat.Max(t.Force)+5

	reveal := min(num+1, t.N)
	pressPts := make(plotter.XYs, reveal)
	forcePts := make(plotter.XYs, reveal)
	for i := 0; i < reveal; i++ {
		pressPts[i] = plotter.XY{X: float64(i), Y: t.Press.AtVec(i) * pressScale}
		forcePts[i] = plotter.XY{X: float64(i), Y: t.Force.AtVec(i)}
	}
	pressLine, err := plotter.NewLine(pressPts)
	if err != nil {
		return err
	}
	pressLine.LineStyle.Width = 2
	pressLine.LineStyle.Color = blue
	forceLine, err := plotter.NewLine(forcePts)
	if err != nil {
		return err
	}
	forceLine.LineStyle.Width = 2
	forceLine.LineStyle.Color = red
	p.Add(pressLine, forceLine)
	p.Legend.Add("Brake Pressure", pressLine)
	p.Legend.Add("Brake Force", forceLine)
	p.Legend.Top = true

	if last {
		if err := e.addRawMarkers(p); err != nil {
			return err
		}
	}
	return p.Save(vg.Length(e.opts.Width), vg.Length(e.opts.Height), path)
}

// addRawMarkers overlays the reference lines for the rolling-resistance
// window, the wake-up point and the cutoff, with their labels.
func (e *exporter) addRawMarkers(p *plot.Plot) error {
	mk := e.ctrl.Markers()

	for _, x := range []int{mk.RollEnd, mk.WakeUp, mk.Cutoff} {
		l, err := dashedLine(float64(x), p.Y.Min, float64(x), p.Y.Max)
		if err != nil {
			return err
		}
		p.Add(l)
	}
	for _, y := range []float64{mk.RollRes, mk.WakeUpPressure * pressScale} {
		l, err := dashedLine(p.X.Min, y, p.X.Max, y)
		if err != nil {
			return err
		}
		p.Add(l)
	}

	labelX := float64(mk.Cutoff+mk.RollEnd) / 2
	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs: plotter.XYs{
			{X: labelX, Y: mk.RollRes + (p.Y.Max-p.Y.Min)/60},
			{X: labelX, Y: mk.WakeUpPressure*pressScale - (p.Y.Max-p.Y.Min)/20},
		},
		Labels: []string{
			fmt.Sprintf("Rolling resistance F_rd = %.1f kN", mk.RollRes),
			fmt.Sprintf("Wake-up pressure p_w = %.2f bar", mk.WakeUpPressure),
		},
	})
	if err != nil {
		return err
	}
	p.Add(labels)
	return nil
}

func (e *exporter) renderSixBarFrame(num int, path string) error {
	d := e.ctrl.SixBarData()
	last := num == e.ctrl.FrameCount(stage.SixBar)-1

	p := plot.New()
	p.Title.Text = "Brake pressure vs. brake force"
	p.X.Label.Text = "Pressure (bar)"
	p.Y.Label.Text = "Force (kN)"
	p.X.Min, p.X.Max = 0, 6
	p.Y.Min, p.Y.Max = 0, maxOf(d.Force)+10

	reveal := min(num+1, len(d.Press))
	pts := make(plotter.XYs, reveal)
	for i := 0; i < reveal; i++ {
		pts[i] = plotter.XY{X: d.Press[i], Y: d.Force[i]}
	}
	data, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	data.LineStyle.Width = 2
	data.LineStyle.Color = red
	p.Add(data)
	p.Legend.Add("Brake Force - Rolling Resistance", data)
	p.Legend.Top = true

	if last {
		fitPts := make(plotter.XYs, len(d.FitX))
		for i := range d.FitX {
			fitPts[i] = plotter.XY{X: d.FitX[i], Y: d.FitY[i]}
		}
		fitLine, err := plotter.NewLine(fitPts)
		if err != nil {
			return err
		}
		fitLine.LineStyle.Width = 2
		fitLine.LineStyle.Color = green
		p.Add(fitLine)
		p.Legend.Add("Line fit (least squares)", fitLine)

		labels, err := plotter.NewLabels(plotter.XYLabels{
			XYs:    plotter.XYs{{X: d.Press[len(d.Press)/2] + 1, Y: mean(d.FitY) - 2}},
			Labels: []string{fmt.Sprintf("%.2f p %+.2f", d.Fit.A, d.Fit.B)},
		})
		if err != nil {
			return err
		}
		p.Add(labels)
	}
	return p.Save(vg.Length(e.opts.Width), vg.Length(e.opts.Height), path)
}

func (e *exporter) renderZFrame(num int, path string) error {
	d := e.ctrl.ZData()

	p := plot.New()
	p.Title.Text = "Brake pressure vs. z"
	p.X.Label.Text = "Pressure (bar)"
	p.Y.Label.Text = "z"
	p.X.Min, p.X.Max = 0, 8
	p.Y.Min, p.Y.Max = 0, stage.TargetZ

	if err := addCorridor(p, d.Unloaded, red, redFill, "Unloaded"); err != nil {
		return err
	}
	if num >= 1 {
		if err := addCorridor(p, d.Loaded, green, greenFill, "Loaded"); err != nil {
			return err
		}
	}
	if num >= 3 {
		pts := make(plotter.XYs, len(d.X))
		for i := range d.X {
			pts[i] = plotter.XY{X: d.X[i], Y: d.Z[i]}
		}
		zLine, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		zLine.LineStyle.Width = 2
		zLine.LineStyle.Color = magenta
		p.Add(zLine)
		p.Legend.Add("Line fit (least squares)", zLine)
	}
	p.Legend.Top = true
	return p.Save(vg.Length(e.opts.Width), vg.Length(e.opts.Height), path)
}

// addCorridor shades the acceptance band between the corridor boundaries
// and draws the boundaries themselves.
func addCorridor(p *plot.Plot, c stage.Corridor, line color.Color, fill color.Color, name string) error {
	xs := append([]float64{0}, c.LowerX...)

	ring := make(plotter.XYs, 0, 2*len(xs))
	for _, x := range xs {
		ring = append(ring, plotter.XY{X: x, Y: c.LowerAt(x)})
	}
	for i := len(xs) - 1; i >= 0; i-- {
		ring = append(ring, plotter.XY{X: xs[i], Y: clampZ(c.Upper.Eval(xs[i]))})
	}
	poly, err := plotter.NewPolygon(ring)
	if err != nil {
		return err
	}
	poly.Color = fill
	poly.LineStyle.Color = color.Transparent
	p.Add(poly)

	upper := make(plotter.XYs, len(c.LowerX))
	lower := make(plotter.XYs, len(c.LowerX))
	for i, x := range c.LowerX {
		upper[i] = plotter.XY{X: x, Y: clampZ(c.Upper.Eval(x))}
		lower[i] = plotter.XY{X: x, Y: c.LowerY[i]}
	}
	upperLine, err := plotter.NewLine(upper)
	if err != nil {
		return err
	}
	upperLine.LineStyle.Color = line
	lowerLine, err := plotter.NewLine(lower)
	if err != nil {
		return err
	}
	lowerLine.LineStyle.Color = line
	p.Add(upperLine, lowerLine)
	p.Legend.Add(name, upperLine)
	return nil
}

func dashedLine(x0, y0, x1, y1 float64) (*plotter.Line, error) {
	l, err := plotter.NewLine(plotter.XYs{{X: x0, Y: y0}, {X: x1, Y: y1}})
	if err != nil {
		return nil, err
	}
	l.LineStyle.Color = black
	l.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	return l, nil
}

func clampZ(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > stage.TargetZ {
		return stage.TargetZ
	}
	return v
}

func maxOf(vals []float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func mean(vals []float64) float64 {
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}
