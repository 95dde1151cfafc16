package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 60, cfg.Samples)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brakeviz.yaml")
	data := []byte("samples: 120\nseed: 42\nexport:\n  fps: 25\n  out: run.avi\nlog:\n  level: debug\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 120, cfg.Samples)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, 25, cfg.Export.FPS)
	assert.Equal(t, "run.avi", cfg.Export.Out)
	assert.Equal(t, "debug", cfg.Log.Level)

	// Untouched fields keep their defaults.
	assert.Equal(t, Default().Export.Width, cfg.Export.Width)
	assert.Equal(t, Default().Rig, cfg.Rig)
	assert.NoError(t, cfg.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("samples: [oops"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"too few samples", func(c *Config) { c.Samples = 5 }},
		{"negative pressure noise", func(c *Config) { c.Rig.PressStd = -0.1 }},
		{"negative force noise", func(c *Config) { c.Rig.ForceStd = -1 }},
		{"zero width", func(c *Config) { c.Export.Width = 0 }},
		{"zero height", func(c *Config) { c.Export.Height = 0 }},
		{"zero fps", func(c *Config) { c.Export.FPS = 0 }},
		{"unknown log level", func(c *Config) { c.Log.Level = "verbose" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
