package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Config holds the input/output paths and render settings.
type Config struct {
	// Paths
	InputDir  string `json:"input_dir"`
	OutputDir string `json:"output_dir"`

	// Render settings
	Format       string   `json:"format"`        // webp, png or tga
	Layers       []string `json:"layers"`        // empty means every layer
	PreviewScale int      `json:"preview_scale"` // 0 disables the preview sheet
	ThumbSize    int      `json:"thumb_size"`    // 0 disables thumbnails
	Workers      int      `json:"workers"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.InputDir != "" {
		c.InputDir = flags.InputDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Layers != "" {
		c.Layers = splitList(flags.Layers)
	}
	if flags.PreviewScale >= 0 {
		c.PreviewScale = flags.PreviewScale
	}
	if flags.ThumbSize > 0 {
		c.ThumbSize = flags.ThumbSize
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	if c.InputDir == "" {
		c.InputDir, _ = os.Getwd()
	}
	if c.OutputDir == "" {
		c.OutputDir = filepath.Join(c.InputDir, "layers")
	} else if !filepath.IsAbs(c.OutputDir) && flags.OutputDir == "" {
		// relative paths in the file are relative to the input dir
		c.OutputDir = filepath.Join(c.InputDir, c.OutputDir)
	}

	if c.Format == "" {
		c.Format = "webp"
	}
	c.Format = strings.ToLower(c.Format)
	if c.PreviewScale < 0 {
		c.PreviewScale = 0
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

// Flags holds CLI flag values that override config file settings.
// PreviewScale is only applied when >= 0; pass -1 to leave it alone.
type Flags struct {
	InputDir     string
	OutputDir    string
	Format       string
	Layers       string // comma separated
	PreviewScale int
	ThumbSize    int
	Workers      int
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
