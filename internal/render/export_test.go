package render

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rotaro/BrakeCalculations/internal/braketest"
	"github.com/Rotaro/BrakeCalculations/internal/stage"
)

// The final raw-data frame carries the marker overlay; render it on its own
// to keep the overlay path covered without stitching a full video.
func TestRenderRawFrameWithMarkers(t *testing.T) {
	bt, err := braketest.New(12, 3)
	require.NoError(t, err)
	bt.Generate()

	ctrl := stage.NewController(bt)
	require.NoError(t, ctrl.Advance())
	e := &exporter{ctrl: ctrl, opts: Options{Width: 320, Height: 240, FPS: 4}}

	path := filepath.Join(t.TempDir(), "raw.jpg")
	require.NoError(t, e.renderRawFrame(ctrl.FrameCount(stage.RawData)-1, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestExportWritesVideo(t *testing.T) {
	if testing.Short() {
		t.Skip("renders chart frames")
	}
	bt, err := braketest.New(12, 3)
	require.NoError(t, err)
	bt.Generate()

	out := filepath.Join(t.TempDir(), "run.avi")
	path, err := Export(bt, Options{Out: out, Width: 320, Height: 240, FPS: 4})
	require.NoError(t, err)
	assert.Equal(t, out, path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestExportDerivesOutputName(t *testing.T) {
	if testing.Short() {
		t.Skip("renders chart frames")
	}
	bt, err := braketest.New(12, 5)
	require.NoError(t, err)
	bt.Generate()

	dir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	path, err := Export(bt, Options{Width: 320, Height: 240, FPS: 4})
	require.NoError(t, err)
	assert.Contains(t, path, "braketest-")
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestExportFailsOnImpossibleWindow(t *testing.T) {
	if testing.Short() {
		t.Skip("renders chart frames")
	}
	bt, err := braketest.New(12, 3)
	require.NoError(t, err)
	bt.Generate()
	bt.Cutoff = bt.WakeUpIndex() + 1

	_, err = Export(bt, Options{Out: filepath.Join(t.TempDir(), "x.avi"), Width: 100, Height: 80, FPS: 4})
	assert.Error(t, err)
}
