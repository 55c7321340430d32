// Package framefx provides a high-level API for transforming videos and
// building their public records.
package framefx

import (
	"github.com/user/framefx/pkg/effects"
	"github.com/user/framefx/pkg/orchestrator"
)

// QualityPreset represents a video quality preset name.
type QualityPreset string

const (
	QualityLow    QualityPreset = "low"
	QualityMedium QualityPreset = "medium"
	QualityHigh   QualityPreset = "high"
)

// QualitySettings contains quality parameters for video encoding.
type QualitySettings struct {
	VideoCRF int // CRF value (lower is better)
}

// GetQualitySettings returns quality settings for the given preset.
func GetQualitySettings(preset QualityPreset) QualitySettings {
	switch preset {
	case QualityLow:
		return QualitySettings{VideoCRF: 35}
	case QualityHigh:
		return QualitySettings{VideoCRF: 15}
	default: // medium
		return QualitySettings{VideoCRF: 23}
	}
}

// Config represents the configuration for one transform.
type Config struct {
	// Transform
	Operation effects.Operation
	Workers   int // 0 = one per CPU

	// Codec
	Codec           string // raw or h264
	FFmpegPath      string
	DisableFallback bool // fail instead of falling back to raw when h264 is unavailable

	// Encoding
	FPS      float64 // 0 keeps the decoded frame rate
	VideoCRF int
	Bitrate  int // kbps, 0 = auto
}

// ConfigBuilder provides a fluent interface for building Config.
type ConfigBuilder struct {
	config Config
}

// NewConfigBuilder creates a new ConfigBuilder with default values.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		config: defaults(),
	}
}

func defaults() Config {
	return Config{
		Operation: effects.OpBrightness,
		Codec:     "raw",
		VideoCRF:  GetQualitySettings(QualityMedium).VideoCRF,
	}
}

// Build returns the final Config, applying constraints.
func (b *ConfigBuilder) Build() Config {
	cfg := b.config

	if cfg.Workers < 0 {
		cfg.Workers = 0
	}
	if cfg.FPS < 0 {
		cfg.FPS = 0
	}
	if cfg.Codec == "" {
		cfg.Codec = "raw"
	}

	return cfg
}

// WithOperation sets the transform applied to every frame.
// Invalid codes are rejected when the run starts.
func (b *ConfigBuilder) WithOperation(op effects.Operation) *ConfigBuilder {
	b.config.Operation = op
	return b
}

// WithWorkers sets the number of transform workers.
func (b *ConfigBuilder) WithWorkers(n int) *ConfigBuilder {
	b.config.Workers = n
	return b
}

// WithCodec sets the output codec (raw or h264).
func (b *ConfigBuilder) WithCodec(codec string) *ConfigBuilder {
	b.config.Codec = codec
	return b
}

// WithFFmpegPath sets a custom ffmpeg binary.
func (b *ConfigBuilder) WithFFmpegPath(path string) *ConfigBuilder {
	b.config.FFmpegPath = path
	return b
}

// WithDisableFallback makes an unavailable h264 encoder an error.
func (b *ConfigBuilder) WithDisableFallback(disable bool) *ConfigBuilder {
	b.config.DisableFallback = disable
	return b
}

// WithFPS overrides the output frame rate.
func (b *ConfigBuilder) WithFPS(fps float64) *ConfigBuilder {
	b.config.FPS = fps
	return b
}

// WithVideoCRF sets the CRF value (lower is better).
func (b *ConfigBuilder) WithVideoCRF(crf int) *ConfigBuilder {
	b.config.VideoCRF = crf
	return b
}

// WithQualityPreset applies a quality preset (low, medium, high).
func (b *ConfigBuilder) WithQualityPreset(preset QualityPreset) *ConfigBuilder {
	b.config.VideoCRF = GetQualitySettings(preset).VideoCRF
	return b
}

// WithBitrate sets the target bitrate in kbps.
func (b *ConfigBuilder) WithBitrate(kbps int) *ConfigBuilder {
	b.config.Bitrate = kbps
	return b
}

// ToOrchestratorConfig converts Config to orchestrator.Config.
// Empty paths skip the corresponding output file.
func (c Config) ToOrchestratorConfig(input, recordPath, videoPath string) orchestrator.Config {
	return orchestrator.Config{
		Input:     input,
		Operation: uint8(c.Operation),

		RecordPath: recordPath,
		VideoPath:  videoPath,

		Workers: c.Workers,

		FPS:         c.FPS,
		Quality:     c.VideoCRF,
		Bitrate:     c.Bitrate,
		OutputCodec: c.Codec,
	}
}
