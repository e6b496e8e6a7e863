// Package config handles tool configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all settings shared by meshtool and meshview.
type Config struct {
	Decode  DecodeConfig  `yaml:"decode"`
	Viewer  ViewerConfig  `yaml:"viewer"`
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

// DecodeConfig controls primitive compilation.
type DecodeConfig struct {
	Workers      int  `yaml:"workers"`       // 0 = one per CPU
	BestEffort   bool `yaml:"best_effort"`   // skip failing primitives
	CacheBuffers bool `yaml:"cache_buffers"` // share buffer reads within one asset
}

// ViewerConfig holds display settings for meshview.
type ViewerConfig struct {
	Width      int       `yaml:"width"`
	Height     int       `yaml:"height"`
	Fullscreen bool      `yaml:"fullscreen"`
	VSync      bool      `yaml:"vsync"`
	Background []float32 `yaml:"background"` // RGB clear color
	FOV        float32   `yaml:"fov"`        // vertical, degrees
}

// ExportConfig controls baked output.
type ExportConfig struct {
	Digest bool `yaml:"digest"` // print stream digests in compile reports
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Decode: DecodeConfig{
			Workers:      0,
			BestEffort:   false,
			CacheBuffers: true,
		},
		Viewer: ViewerConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			Background: []float32{0.12, 0.13, 0.16},
			FOV:        45,
		},
		Export: ExportConfig{
			Digest: true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case c.Decode.Workers < 0:
		return fmt.Errorf("%w: decode.workers must not be negative, got %d", ErrInvalidConfig, c.Decode.Workers)
	case c.Viewer.Width <= 0 || c.Viewer.Height <= 0:
		return fmt.Errorf("%w: viewer size %dx%d", ErrInvalidConfig, c.Viewer.Width, c.Viewer.Height)
	case len(c.Viewer.Background) != 3:
		return fmt.Errorf("%w: viewer.background needs 3 components, got %d", ErrInvalidConfig, len(c.Viewer.Background))
	case c.Viewer.FOV <= 0 || c.Viewer.FOV >= 180:
		return fmt.Errorf("%w: viewer.fov %v out of range", ErrInvalidConfig, c.Viewer.FOV)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: logging.level %q", ErrInvalidConfig, c.Logging.Level)
	}
	return nil
}
