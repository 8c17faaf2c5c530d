// Package config loads editor settings from an optional TOML file layered
// over built-in defaults.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds every session-scoped setting the editor consumes.
type Config struct {
	// Palette is the fixed set of stroke colors offered by the toolbar,
	// as hex strings.
	Palette []string `toml:"palette"`
	// StrokeWidths is the fixed discrete set of widths in display pixels.
	StrokeWidths []float64 `toml:"stroke_widths"`
	// HistoryLimit caps the undo stack.
	HistoryLimit int `toml:"history_limit"`
	// FontSize is the size used for new text annotations.
	FontSize float64 `toml:"font_size"`
	// ArrowHeadSize is the edge length of arrowhead triangles.
	ArrowHeadSize float64 `toml:"arrow_head_size"`
	// MaxViewportWidth/Height bound the on-screen canvas; larger backgrounds
	// are displayed scaled down to fit while keeping aspect ratio.
	MaxViewportWidth  int `toml:"max_viewport_width"`
	MaxViewportHeight int `toml:"max_viewport_height"`
	// ExportDir is where flattened images are written.
	ExportDir string `toml:"export_dir"`
	// LogLevel is a zerolog level name (debug, info, warn, error).
	LogLevel string `toml:"log_level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Palette: []string{
			"#000000", // black
			"#e53935", // red
			"#43a047", // green
			"#1e88e5", // blue
			"#fdd835", // yellow
			"#ffffff", // white
		},
		StrokeWidths:      []float64{2, 4, 6, 10},
		HistoryLimit:      50,
		FontSize:          20,
		ArrowHeadSize:     14,
		MaxViewportWidth:  1280,
		MaxViewportHeight: 800,
		ExportDir:         ".",
		LogLevel:          "info",
	}
}

// Load reads path over the defaults. A missing file is not an error; an
// unreadable or invalid one is.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.Palette) == 0 {
		return fmt.Errorf("palette must not be empty")
	}
	if len(c.StrokeWidths) == 0 {
		return fmt.Errorf("stroke_widths must not be empty")
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("history_limit must be positive")
	}
	if c.MaxViewportWidth <= 0 || c.MaxViewportHeight <= 0 {
		return fmt.Errorf("viewport bounds must be positive")
	}
	return nil
}
