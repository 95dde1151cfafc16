// Package tui renders the brake test stages interactively in the terminal.
// Pressure and force curves are drawn on a braille canvas; any key press
// advances the display stage.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	plot "github.com/chriskim06/drawille-go"
	"gonum.org/v1/gonum/mat"

	"github.com/Rotaro/BrakeCalculations/internal/regress"
	"github.com/Rotaro/BrakeCalculations/internal/stage"
)

// rawPressMax is the pressure axis limit of the raw-data stage, in bar.
const rawPressMax = 6.0

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	pressureFg   = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	forceFg      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	loadedFg     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	fitFg        = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	captionStyle = lipgloss.NewStyle().Faint(true)
	plotBoxStyle = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("#555"))
)

// frameMsg advances the animation of one stage. Carrying the stage lets a
// message that arrives after the user already moved on be dropped silently.
type frameMsg struct {
	stage stage.Status
	num   int
}

func frameTick(s stage.Status, num int) tea.Cmd {
	return tea.Tick(s.Interval(), func(time.Time) tea.Msg {
		return frameMsg{stage: s, num: num}
	})
}

// Model is the interactive brake test viewer.
type Model struct {
	ctrl *stage.Controller

	width, height int
	canvas        plot.Canvas
	frame         int
	notice        string
	help          help.Model

	forceMax float64 // force axis limit of the raw-data stage
}

func New(ctrl *stage.Controller) *Model {
	const (
		defaultWidth  = 80
		defaultHeight = 24
	)
	m := &Model{
		ctrl:     ctrl,
		help:     help.New(),
		forceMax: mat.Max(ctrl.Test.Force) + 5,
	}
	m.width, m.height = defaultWidth, defaultHeight
	m.resizeCanvas()
	return m
}

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resizeCanvas()
		return m, nil
	case frameMsg:
		if msg.stage != m.ctrl.Status() {
			// The user advanced before this animation finished.
			return m, nil
		}
		m.frame = msg.num
		if msg.num < m.ctrl.FrameCount(msg.stage)-1 {
			return m, frameTick(msg.stage, msg.num+1)
		}
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			return m, tea.Quit
		}
		return m, m.advance()
	}
	return m, nil
}

// advance moves to the next stage and kicks off its animation.
func (m *Model) advance() tea.Cmd {
	m.notice = ""
	m.frame = 0
	if err := m.ctrl.Advance(); err != nil {
		m.notice = err.Error()
		m.ctrl.Reset()
		return nil
	}
	s := m.ctrl.Status()
	if s == stage.Idle {
		return nil
	}
	return frameTick(s, 1)
}

func (m *Model) resizeCanvas() {
	w := max(10, m.width-2)
	h := max(4, m.height-9)
	c := plot.NewCanvas(w, h)
	c.ShowAxis = false
	m.canvas = c
}

func (m *Model) View() string {
	var (
		title       string
		graph       string
		captions    []string
		annotations []string
	)
	switch m.ctrl.Status() {
	case stage.Idle:
		title = "Press any key to start animation."
		graph = m.blankCanvas()
	case stage.RawData:
		title, graph, captions, annotations = m.viewRawData()
	case stage.SixBar:
		title, graph, captions, annotations = m.viewSixBar()
	case stage.ZRatio:
		title, graph, captions, annotations = m.viewZRatio()
	}

	parts := []string{
		titleStyle.Render(title),
		plotBoxStyle.Render(graph),
	}
	if len(captions) > 0 {
		parts = append(parts, captionStyle.Render(strings.Join(captions, "   ")))
	}
	parts = append(parts, annotations...)
	if m.notice != "" {
		parts = append(parts, noticeStyle.Render("ERROR: "+m.notice))
	}
	parts = append(parts, m.help.View(keys))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) viewRawData() (title, graph string, captions, annotations []string) {
	t := m.ctrl.Test
	title = "Brake pressure and force measurement"
	reveal := min(max(m.frame+1, 2), t.N)

	press := make([]float64, reveal)
	force := make([]float64, reveal)
	for i := 0; i < reveal; i++ {
		press[i] = t.Press.AtVec(i) / rawPressMax
		force[i] = t.Force.AtVec(i) / m.forceMax
	}
	m.canvas.NumDataPoints = t.N
	m.canvas.LineColors = []plot.Color{plot.Blue, plot.Red}
	m.canvas.Fill([][]float64{press, force})
	graph = m.canvas.String()

	captions = []string{
		pressureFg.Render(fmt.Sprintf("Pressure (bar, 0-%.0f)", rawPressMax)),
		forceFg.Render(fmt.Sprintf("Force (kN, 0-%.0f)", m.forceMax)),
	}
	if m.frame >= m.ctrl.FrameCount(stage.RawData)-1 {
		mk := m.ctrl.Markers()
		annotations = []string{
			forceFg.Render(fmt.Sprintf("Rolling resistance F_rd = %.1f kN (t < %d)", mk.RollRes, mk.RollEnd)),
			pressureFg.Render(fmt.Sprintf("Wake-up pressure p_w = %.2f bar (t = %d)", mk.WakeUpPressure, mk.WakeUp)),
			captionStyle.Render(fmt.Sprintf("Cutoff t = %d", mk.Cutoff)),
		}
		title += " — press any key to continue."
	}
	return title, graph, captions, annotations
}

func (m *Model) viewSixBar() (title, graph string, captions, annotations []string) {
	d := m.ctrl.SixBarData()
	title = "Brake pressure vs. brake force"
	yMax := maxOf(d.Force) + 10
	reveal := min(max(m.frame+1, 2), len(d.Force))

	data := make([]float64, reveal)
	for i := 0; i < reveal; i++ {
		data[i] = d.Force[i] / yMax
	}
	series := [][]float64{data}
	colors := []plot.Color{plot.Red}

	done := m.frame >= m.ctrl.FrameCount(stage.SixBar)-1
	if done {
		full := make([]float64, len(d.Force))
		fitted := make([]float64, len(d.Force))
		for i := range d.Force {
			full[i] = d.Force[i] / yMax
			fitted[i] = d.Fit.Eval(d.Press[i]) / yMax
		}
		series = [][]float64{full, fitted}
		colors = []plot.Color{plot.Red, plot.Green}
	}
	m.canvas.NumDataPoints = len(d.Force)
	m.canvas.LineColors = colors
	m.canvas.Fill(series)
	graph = m.canvas.String()

	captions = []string{
		forceFg.Render("Brake force - rolling resistance (kN)"),
		captionStyle.Render("x: samples sorted by pressure"),
	}
	if done {
		annotations = []string{
			loadedFg.Render(fmt.Sprintf("Line fit (least squares): %.2f p %+.2f", d.Fit.A, d.Fit.B)),
		}
		title += " — press any key to continue."
	}
	return title, graph, captions, annotations
}

func (m *Model) viewZRatio() (title, graph string, captions, annotations []string) {
	d := m.ctrl.ZData()
	title = "Brake pressure vs. z"
	grid := regress.Linspace(0, 6, 121)

	var series [][]float64
	var colors []plot.Color
	addBand := func(c stage.Corridor, col plot.Color) {
		upper := make([]float64, len(grid))
		lower := make([]float64, len(grid))
		for i, x := range grid {
			upper[i] = clamp01(c.Upper.Eval(x) / stage.TargetZ)
			lower[i] = clamp01(c.LowerAt(x) / stage.TargetZ)
		}
		series = append(series, upper, lower)
		colors = append(colors, col, col)
	}

	addBand(d.Unloaded, plot.Red)
	annotations = append(annotations, forceFg.Render("Unloaded corridor"))
	if m.frame >= 1 {
		addBand(d.Loaded, plot.Green)
		annotations = append(annotations, loadedFg.Render("Loaded corridor"))
	}
	if m.frame >= 3 {
		if fit, ok := m.ctrl.Fit(); ok {
			z := make([]float64, len(grid))
			for i, x := range grid {
				z[i] = clamp01(fit.Eval(x) * d.Scale / stage.TargetZ)
			}
			series = append(series, z)
			colors = append(colors, plot.Magenta)
			annotations = append(annotations, fitFg.Render("Line fit (least squares)"))
		}
		title += " — press any key to restart animation."
	}

	m.canvas.NumDataPoints = len(grid)
	m.canvas.LineColors = colors
	m.canvas.Fill(series)
	graph = m.canvas.String()

	captions = []string{
		captionStyle.Render(fmt.Sprintf("z (0-%.1f) over pressure (bar, 0-6)", stage.TargetZ)),
	}
	return title, graph, captions, annotations
}

func (m *Model) blankCanvas() string {
	w := max(10, m.width-2)
	h := max(4, m.height-9)
	var sb strings.Builder
	row := strings.Repeat(" ", w)
	for i := 0; i < h; i++ {
		sb.WriteString(row)
		if i < h-1 {
			sb.WriteRune('\n')
		}
	}
	return sb.String()
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

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
