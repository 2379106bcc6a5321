package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"zbuf-renderer/internal/geom"
)

// Config holds all configurable paths and render settings.
type Config struct {
	// Paths
	BaseDir   string   `json:"base_dir"`
	Scenes    []string `json:"scenes"`
	OutputDir string   `json:"output_dir"`
	DumpFile  string   `json:"dump_file"`

	// Render settings
	Width      int         `json:"width"`
	Height     int         `json:"height"`
	MaxDepth   float64     `json:"max_depth"`
	Background *geom.Color `json:"background"`
	Format     string      `json:"format"`
	Scale      int         `json:"scale"`
	FlipY      bool        `json:"flip_y"`
	DumpAfter  int         `json:"dump_after"`
	Workers    int         `json:"workers"`
}

// Defaults applied by Resolve.
const (
	DefaultWidth      = 800
	DefaultHeight     = 600
	DefaultMaxDepth   = 1000.0
	DefaultBackground = geom.Color(0xFFFFFF)
	DefaultFormat     = "png"
	DefaultOutputDir  = "renders"
	DefaultDumpFile   = "zbuffer_output.txt"
	DefaultDumpAfter  = 1
)

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values. Relative paths in the
// file are taken relative to the file's directory unless base_dir is set.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.BaseDir == "" {
		cfg.BaseDir = filepath.Dir(path)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Scenes    []string
	OutputDir string
	Format    string
	Scale     int
	Workers   int
	DumpAfter int
	DumpFile  string
	FlipY     bool
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if len(flags.Scenes) > 0 {
		c.Scenes = flags.Scenes
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Scale > 0 {
		c.Scale = flags.Scale
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.DumpAfter != 0 {
		c.DumpAfter = flags.DumpAfter
	}
	if flags.DumpFile != "" {
		c.DumpFile = flags.DumpFile
	}
	if flags.FlipY {
		c.FlipY = true
	}

	// Resolve relative paths against base dir
	if c.BaseDir != "" {
		for i, s := range c.Scenes {
			if !filepath.IsAbs(s) && len(flags.Scenes) == 0 {
				c.Scenes[i] = filepath.Join(c.BaseDir, s)
			}
		}
		if c.OutputDir != "" && !filepath.IsAbs(c.OutputDir) && flags.OutputDir == "" {
			c.OutputDir = filepath.Join(c.BaseDir, c.OutputDir)
		}
		if c.DumpFile != "" && !filepath.IsAbs(c.DumpFile) && flags.DumpFile == "" {
			c.DumpFile = filepath.Join(c.BaseDir, c.DumpFile)
		}
	}

	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.DumpFile == "" {
		c.DumpFile = filepath.Join(c.OutputDir, DefaultDumpFile)
	}

	// Defaults for render settings
	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	if c.MaxDepth <= 0 {
		c.MaxDepth = DefaultMaxDepth
	}
	if c.Background == nil {
		bg := DefaultBackground
		c.Background = &bg
	}
	if c.Format == "" {
		c.Format = DefaultFormat
	}
	if c.Scale <= 0 {
		c.Scale = 1
	}
	if c.DumpAfter == 0 {
		c.DumpAfter = DefaultDumpAfter
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}
