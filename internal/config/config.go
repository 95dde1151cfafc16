// Package config loads the application configuration from an optional YAML
// file, with sensible defaults for running without one.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Rotaro/BrakeCalculations/internal/braketest"
)

// Config holds the application configuration.
type Config struct {
	Samples int    `yaml:"samples"` // number of data points to generate
	Seed    uint64 `yaml:"seed"`    // 0 seeds from the clock

	Rig    RigConfig    `yaml:"rig"`
	Export ExportConfig `yaml:"export"`
	Log    LogConfig    `yaml:"log"`
}

// RigConfig holds the noise characteristics of the simulated test rig.
type RigConfig struct {
	PressStd float64 `yaml:"press_std"` // pressure noise sigma
	ForceStd float64 `yaml:"force_std"` // force noise sigma
}

// ExportConfig holds settings for the offline animation export.
type ExportConfig struct {
	Out    string `yaml:"out"` // output AVI path; empty derives one from the run ID
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	FPS    int    `yaml:"fps"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Samples: 60,
		Rig: RigConfig{
			PressStd: braketest.DefaultPressStd,
			ForceStd: braketest.DefaultForceStd,
		},
		Export: ExportConfig{
			Width:  1000,
			Height: 800,
			FPS:    10,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads the configuration file at path on top of the defaults. An
// empty path returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configurations the generator or exporter cannot run with.
func (c Config) Validate() error {
	if c.Samples < braketest.MinSamples {
		return fmt.Errorf("config: samples must be at least %d, got %d", braketest.MinSamples, c.Samples)
	}
	if c.Rig.PressStd < 0 || c.Rig.ForceStd < 0 {
		return fmt.Errorf("config: noise sigmas must not be negative")
	}
	if c.Export.Width < 1 || c.Export.Height < 1 {
		return fmt.Errorf("config: export dimensions must be positive, got %dx%d", c.Export.Width, c.Export.Height)
	}
	if c.Export.FPS < 1 {
		return fmt.Errorf("config: export fps must be at least 1, got %d", c.Export.FPS)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.Log.Level)
	}
	return nil
}
