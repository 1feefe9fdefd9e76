package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	InputPath    string  `yaml:"input"`
	OutputDir    string  `yaml:"output_dir"`
	Radius       int     `yaml:"radius"`
	Tolerance    float64 `yaml:"tolerance"`
	DPI          int     `yaml:"dpi"`
	Workers      int     `yaml:"workers"`
	WriteMaps    bool    `yaml:"write_maps"`
	ReportPath   string  `yaml:"report"`
	ShowStats    bool    `yaml:"stats"`
	Verbose      bool    `yaml:"verbose"`
	BuildVersion string  `yaml:"-"`
}

// LoadParams overlays values from a YAML params file onto the config.
// Zero-valued fields in the file leave the current values untouched only for
// strings; numeric parameters present in the file win, so the file should
// state the full parameter set it cares about.
func (c *Config) LoadParams(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var overlay Config
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("bad params file %s: %w", path, err)
	}

	if overlay.InputPath != "" {
		c.InputPath = overlay.InputPath
	}
	if overlay.OutputDir != "" {
		c.OutputDir = overlay.OutputDir
	}
	if overlay.Radius != 0 {
		c.Radius = overlay.Radius
	}
	if overlay.Tolerance != 0 {
		c.Tolerance = overlay.Tolerance
	}
	if overlay.DPI != 0 {
		c.DPI = overlay.DPI
	}
	if overlay.Workers != 0 {
		c.Workers = overlay.Workers
	}
	if overlay.ReportPath != "" {
		c.ReportPath = overlay.ReportPath
	}
	if overlay.WriteMaps {
		c.WriteMaps = true
	}
	if overlay.ShowStats {
		c.ShowStats = true
	}
	return nil
}

// Validate front-loads the comparator's input contract so bad parameters fail
// before any page is rendered.
func (c *Config) Validate() error {
	if c.Radius < 1 {
		return fmt.Errorf("radius must be >= 1, got %d", c.Radius)
	}
	if c.Tolerance <= 0 || math.IsNaN(c.Tolerance) || math.IsInf(c.Tolerance, 0) {
		return fmt.Errorf("tolerance must be a positive finite number, got %v", c.Tolerance)
	}
	if c.DPI < 1 {
		return fmt.Errorf("dpi must be >= 1, got %d", c.DPI)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	return nil
}
