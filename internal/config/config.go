// Package config holds the dashboard and export settings. Values come from
// Default, are overlaid by an optional YAML file and finally by command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full set of settings.
type Config struct {
	DataFile string       `yaml:"data_file"`
	Addr     string       `yaml:"addr"`
	Log      LogConfig    `yaml:"log"`
	Cache    CacheConfig  `yaml:"cache"`
	Chart    ChartConfig  `yaml:"chart"`
	Filters  FilterConfig `yaml:"filters"`
	Export   ExportConfig `yaml:"export"`
}

// LogConfig selects the slog level and handler format.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// CacheConfig sizes the loader cache, counted in file identities.
type CacheConfig struct {
	Size int `yaml:"size"`
}

// ChartConfig is the display layout of the bubble chart. The x range clips
// what is drawn, nothing else.
type ChartConfig struct {
	Height int     `yaml:"height"`
	XMin   float64 `yaml:"x_min"`
	XMax   float64 `yaml:"x_max"`
	XDTick float64 `yaml:"x_dtick"`
}

// FilterConfig holds the starting slider values.
type FilterConfig struct {
	DefaultMinLog10 float64 `yaml:"default_min_log10"`
}

// ExportConfig is where clean-listings writes its outputs.
type ExportConfig struct {
	OutDir string `yaml:"out_dir"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		DataFile: "data.xlsx",
		Addr:     "127.0.0.1:8501",
		Log:      LogConfig{Level: "info", Format: "text"},
		Cache:    CacheConfig{Size: 8},
		Chart:    ChartConfig{Height: 550, XMin: 3.8, XMax: 5.0, XDTick: 0.1},
		Filters:  FilterConfig{DefaultMinLog10: 1.0},
		Export:   ExportConfig{OutDir: "outputs"},
	}
}

// LoadFile reads path over the defaults and validates the result.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects settings that cannot produce a working dashboard.
func (c *Config) Validate() error {
	var errs []error
	if c.DataFile == "" {
		errs = append(errs, errors.New("data_file is empty"))
	}
	if c.Addr == "" {
		errs = append(errs, errors.New("addr is empty"))
	}
	if c.Chart.XMax <= c.Chart.XMin {
		errs = append(errs, fmt.Errorf("chart.x_max (%g) must exceed chart.x_min (%g)", c.Chart.XMax, c.Chart.XMin))
	}
	if c.Chart.XDTick <= 0 {
		errs = append(errs, fmt.Errorf("chart.x_dtick must be positive, got %g", c.Chart.XDTick))
	}
	if c.Chart.Height <= 0 {
		errs = append(errs, fmt.Errorf("chart.height must be positive, got %d", c.Chart.Height))
	}
	if c.Filters.DefaultMinLog10 < 0 {
		errs = append(errs, fmt.Errorf("filters.default_min_log10 must not be negative, got %g", c.Filters.DefaultMinLog10))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	return errors.Join(errs...)
}
