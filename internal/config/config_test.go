package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func validConfig() *Config {
	return &Config{
		InputPath: "scan.png",
		OutputDir: "output",
		Radius:    5,
		Tolerance: 0.1,
		DPI:       300,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"zero_radius", func(c *Config) { c.Radius = 0 }, true},
		{"negative_radius", func(c *Config) { c.Radius = -1 }, true},
		{"zero_tolerance", func(c *Config) { c.Tolerance = 0 }, true},
		{"nan_tolerance", func(c *Config) { c.Tolerance = math.NaN() }, true},
		{"inf_tolerance", func(c *Config) { c.Tolerance = math.Inf(1) }, true},
		{"zero_dpi", func(c *Config) { c.DPI = 0 }, true},
		{"no_output", func(c *Config) { c.OutputDir = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoadParams(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yaml")
	data := []byte("radius: 7\ntolerance: 0.25\nwrite_maps: true\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg := validConfig()
	if err := cfg.LoadParams(path); err != nil {
		t.Fatalf("LoadParams failed: %v", err)
	}

	if cfg.Radius != 7 {
		t.Errorf("expected radius 7, got %d", cfg.Radius)
	}
	if cfg.Tolerance != 0.25 {
		t.Errorf("expected tolerance 0.25, got %v", cfg.Tolerance)
	}
	if !cfg.WriteMaps {
		t.Error("expected write_maps to be set")
	}
	// Fields absent from the file keep their values
	if cfg.InputPath != "scan.png" || cfg.DPI != 300 {
		t.Error("unrelated fields were overwritten")
	}
}

func TestLoadParamsBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yaml")
	if err := os.WriteFile(path, []byte("radius: [not a number\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := validConfig()
	if err := cfg.LoadParams(path); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}
