// Command brakeviz synthesizes a vehicle brake test and walks through its
// calculations in an interactive, key-press-driven terminal animation.
// With -export the same stage cycle is rendered to an MJPEG AVI instead.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"

	"github.com/Rotaro/BrakeCalculations/internal/braketest"
	"github.com/Rotaro/BrakeCalculations/internal/config"
	"github.com/Rotaro/BrakeCalculations/internal/render"
	"github.com/Rotaro/BrakeCalculations/internal/stage"
	"github.com/Rotaro/BrakeCalculations/internal/tui"
)

func main() {
	var (
		cfgPath  = flag.String("config", "", "YAML configuration file")
		samples  = flag.Int("samples", 0, "number of data points to generate (overrides config)")
		seed     = flag.Uint64("seed", 0, "random seed, 0 seeds from the clock (overrides config)")
		doExport = flag.Bool("export", false, "render the stage cycle to an AVI instead of running the viewer")
		out      = flag.String("out", "", "output AVI path for -export (overrides config)")
		fps      = flag.Int("fps", 0, "frame rate for -export (overrides config)")
		logLevel = flag.String("log-level", "", "log level: debug, info, warn or error (overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fatal(err)
	}
	if *samples != 0 {
		cfg.Samples = *samples
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *out != "" {
		cfg.Export.Out = *out
	}
	if *fps != 0 {
		cfg.Export.FPS = *fps
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		fatal(err)
	}
	setupLogging(cfg.Log.Level)

	seedVal := cfg.Seed
	if seedVal == 0 {
		seedVal = uint64(time.Now().UnixNano())
	}
	t, err := braketest.New(cfg.Samples, seedVal)
	if err != nil {
		fatal(err)
	}
	t.PressStd = cfg.Rig.PressStd
	t.ForceStd = cfg.Rig.ForceStd
	t.Generate()
	slog.Info("generated brake test",
		"samples", t.N, "seed", seedVal, "cutoff", t.Cutoff,
		"press_k", t.PressK, "force_k", t.ForceK, "roll_res", t.RollRes)

	if *doExport {
		path, err := render.Export(t, render.Options{
			Out:    cfg.Export.Out,
			Width:  cfg.Export.Width,
			Height: cfg.Export.Height,
			FPS:    cfg.Export.FPS,
		})
		if err != nil {
			fatal(err)
		}
		fmt.Println(path)
		return
	}

	if !term.IsTerminal(os.Stdin.Fd()) {
		fatal(fmt.Errorf("stdin is not a terminal; use -export to render the animation to a file"))
	}
	m := tui.New(stage.NewController(t))
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		fatal(err)
	}
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "brakeviz:", err)
	os.Exit(1)
}
