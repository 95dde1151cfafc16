// Package render exports the brake test stage cycle as an animation: each
// stage is drawn frame by frame into JPEG images which are then stitched
// into an MJPEG AVI.
package render

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/icza/mjpeg"

	"github.com/Rotaro/BrakeCalculations/internal/braketest"
	"github.com/Rotaro/BrakeCalculations/internal/stage"
)

// Options configure the exported video.
type Options struct {
	Out    string // output AVI path; empty derives one from the run ID
	Width  int    // frame width, px
	Height int    // frame height, px
	FPS    int
}

type exporter struct {
	ctrl *stage.Controller
	opts Options

	dir    string
	frames []string
	seq    int
}

// Export runs the full stage cycle on the test data and writes the
// animation. It returns the path of the written AVI.
func Export(t *braketest.Test, opts Options) (string, error) {
	runID := uuid.NewString()
	out := opts.Out
	if out == "" {
		out = fmt.Sprintf("braketest-%s.avi", runID)
	}

	dir, err := os.MkdirTemp("", "braketest-"+runID)
	if err != nil {
		return "", fmt.Errorf("render: %w", err)
	}
	defer os.RemoveAll(dir)

	e := &exporter{
		ctrl: stage.NewController(t),
		opts: opts,
		dir:  dir,
	}
	slog.Info("exporting brake test animation", "run_id", runID, "out", out,
		"size", fmt.Sprintf("%dx%d", opts.Width, opts.Height), "fps", opts.FPS)

	for _, s := range []struct {
		status stage.Status
		render func(num int, path string) error
	}{
		{stage.RawData, e.renderRawFrame},
		{stage.SixBar, e.renderSixBarFrame},
		{stage.ZRatio, e.renderZFrame},
	} {
		if err := e.ctrl.Advance(); err != nil {
			return "", fmt.Errorf("render: %s stage: %w", s.status, err)
		}
		if err := e.renderStage(s.status, s.render); err != nil {
			return "", err
		}
	}

	if err := e.stitch(out); err != nil {
		return "", err
	}
	slog.Info("export finished", "out", out, "frames", len(e.frames))
	return out, nil
}

// renderStage draws every frame of the stage, holding each frame long
// enough to reproduce the stage's animation pacing at the video frame rate.
func (e *exporter) renderStage(s stage.Status, render func(num int, path string) error) error {
	count := e.ctrl.FrameCount(s)
	hold := int(s.Interval() * time.Duration(e.opts.FPS) / time.Second)
	if hold < 1 {
		hold = 1
	}
	slog.Debug("rendering stage", "stage", s.String(), "frames", count, "hold", hold)

	for num := 0; num < count; num++ {
		path := filepath.Join(e.dir, fmt.Sprintf("frame%05d.jpg", e.seq))
		e.seq++
		if err := render(num, path); err != nil {
			return fmt.Errorf("render: %s frame %d: %w", s, num, err)
		}
		for i := 0; i < hold; i++ {
			e.frames = append(e.frames, path)
		}
	}
	return nil
}

func (e *exporter) stitch(out string) error {
	aw, err := mjpeg.New(out, int32(e.opts.Width), int32(e.opts.Height), int32(e.opts.FPS))
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	for _, f := range e.frames {
		data, err := os.ReadFile(f)
		if err != nil {
			aw.Close()
			return fmt.Errorf("render: %w", err)
		}
		if err := aw.AddFrame(data); err != nil {
			aw.Close()
			return fmt.Errorf("render: %w", err)
		}
	}
	if err := aw.Close(); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}
