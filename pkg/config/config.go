// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"

	"github.com/user/framefx/pkg/effects"
	"github.com/user/framefx/pkg/orchestrator"
	"github.com/user/framefx/pkg/ports"
	"gopkg.in/yaml.v3"
)

// Config represents the full configuration for framefx.
type Config struct {
	// Transform
	Operation string `yaml:"operation"` // name ("shake") or code ("4")
	Workers   int    `yaml:"workers"`

	// Codec
	Codec      string `yaml:"codec"` // raw or h264
	FFmpegPath string `yaml:"ffmpeg_path"`

	// Encoding
	FPS     float64 `yaml:"fps"` // 0 keeps the decoded frame rate
	Quality int     `yaml:"quality"`
	Bitrate int     `yaml:"bitrate"`

	// Outputs
	OutputPath  string `yaml:"output"`
	VideoOutput string `yaml:"video_output"`
	SummaryPath string `yaml:"summary"`

	// Debug
	Debug    bool   `yaml:"debug"`
	DebugDir string `yaml:"debug_dir"`

	// Logging
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"` // console, text or json
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		Operation: "brightness",

		Codec: "raw",

		Quality: 23,

		OutputPath: "record.bin",

		DebugDir: "./debug",

		LogLevel:  "info",
		LogFormat: "console",
	}
}

// LoadFromFile loads configuration from a YAML file. Keys missing from the
// file keep their default values.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the values that cannot be corrected later in a run.
func (c Config) Validate() error {
	if _, err := effects.ParseOperationName(c.Operation); err != nil {
		return err
	}
	switch c.Codec {
	case "raw", "h264":
	default:
		return fmt.Errorf("unknown codec %q", c.Codec)
	}
	switch c.LogFormat {
	case "", "console", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	if _, err := ports.LookupLogLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative: %d", c.Workers)
	}
	if c.FPS < 0 {
		return fmt.Errorf("fps must not be negative: %v", c.FPS)
	}
	return nil
}

// ToOrchestratorConfig converts Config to orchestrator.Config for the given
// base64 input.
func (c Config) ToOrchestratorConfig(input string) (orchestrator.Config, error) {
	op, err := effects.ParseOperationName(c.Operation)
	if err != nil {
		return orchestrator.Config{}, err
	}

	return orchestrator.Config{
		Input:     input,
		Operation: uint8(op),

		RecordPath:  c.OutputPath,
		VideoPath:   c.VideoOutput,
		SummaryPath: c.SummaryPath,

		Workers: c.Workers,

		FPS:         c.FPS,
		Quality:     c.Quality,
		Bitrate:     c.Bitrate,
		OutputCodec: c.Codec,
	}, nil
}
