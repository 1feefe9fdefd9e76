package report

import (
	"fmt"
	"path/filepath"
	"time"
)

// Report summarizes one analysis run: the parameters used and per-page match
// statistics, so callers can inspect results without re-running the pipeline.
type Report struct {
	Version     string     `yaml:"version"`
	GeneratedAt string     `yaml:"generated_at"`
	Input       string     `yaml:"input"`
	Parameters  Parameters `yaml:"parameters"`
	Pages       []Page     `yaml:"pages"`
}

// Parameters echoes the comparator configuration.
type Parameters struct {
	Radius    int     `yaml:"radius"`
	Tolerance float64 `yaml:"tolerance"`
	DPI       int     `yaml:"dpi"`
}

// Page holds the statistics for a single analyzed page or image.
type Page struct {
	ID             int            `yaml:"id"`
	Input          string         `yaml:"input"`
	Width          int            `yaml:"width"`
	Height         int            `yaml:"height"`
	MatchedPixels  int            `yaml:"matched_pixels"`
	MatchedPercent float64        `yaml:"matched_percent"`
	Channels       []ChannelStats `yaml:"channels"`
	Artifacts      Artifacts      `yaml:"artifacts"`
	ElapsedSeconds float64        `yaml:"elapsed_seconds"`
}

// ChannelStats is the entropy range of one channel across the page.
type ChannelStats struct {
	Channel string  `yaml:"channel"`
	Min     float64 `yaml:"min"`
	Max     float64 `yaml:"max"`
	Mean    float64 `yaml:"mean"`
}

// Artifacts lists the files written for a page.
type Artifacts struct {
	Original    string   `yaml:"original"`
	Highlighted string   `yaml:"highlighted"`
	Mask        string   `yaml:"mask"`
	EntropyMaps []string `yaml:"entropy_maps,omitempty"`
}

// DefaultPath creates a timestamped report filename inside the output
// directory.
func DefaultPath(outputDir string) string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(outputDir, fmt.Sprintf("report_%s.yaml", timestamp))
}
