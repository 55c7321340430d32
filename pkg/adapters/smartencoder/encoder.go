// Package smartencoder selects a video encoder for the requested codec with
// fallback support.
package smartencoder

import (
	"errors"
	"fmt"

	"github.com/user/framefx/pkg/adapters/ffmpegcodec"
	"github.com/user/framefx/pkg/adapters/rawcodec"
	"github.com/user/framefx/pkg/ports"
)

// Codec represents the video codec type.
type Codec string

const (
	// CodecRaw represents the lossless raw codec.
	CodecRaw Codec = "raw"
	// CodecH264 represents H.264/AVC codec.
	CodecH264 Codec = "h264"
)

// Backend represents the encoding backend used.
type Backend string

const (
	// BackendNative represents the pure Go raw encoder.
	BackendNative Backend = "native"
	// BackendFFmpeg represents FFmpeg-based encoding.
	BackendFFmpeg Backend = "ffmpeg"
)

// Info contains information about the selected encoder.
type Info struct {
	// Codec is the actual codec being used.
	Codec Codec
	// Backend is the encoding backend being used.
	Backend Backend
	// RequestedCodec is the codec that was originally requested.
	RequestedCodec Codec
	// FallbackUsed indicates whether a fallback occurred.
	FallbackUsed bool
}

// Options configures the smart encoder behavior.
type Options struct {
	// FFmpegPath is an optional custom path to the ffmpeg binary.
	FFmpegPath string
	// DisableFallback makes New fail instead of falling back to the raw codec
	// when H.264 is not available.
	DisableFallback bool
	// Logger is used to log fallback warnings.
	Logger ports.Logger
}

var (
	// ErrNoEncoderAvailable is returned when no encoder is available.
	ErrNoEncoderAvailable = errors.New("smartencoder: no encoder available")
	// ErrUnknownCodec is returned for codec names this package does not know.
	ErrUnknownCodec = errors.New("smartencoder: unknown codec")
)

// ParseCodec validates a codec name.
func ParseCodec(s string) (Codec, error) {
	switch Codec(s) {
	case CodecRaw, CodecH264:
		return Codec(s), nil
	case "":
		return CodecRaw, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCodec, s)
	}
}

// New creates a new video encoder.
//
// The selection flow for H.264:
//  1. Try FFmpeg encoder
//  2. Unless DisableFallback is set, fall back to the raw codec
//
// For raw, the pure Go encoder is always used.
func New(preferred Codec, opts Options) (ports.VideoEncoder, Info, error) {
	switch preferred {
	case CodecRaw, "":
		return rawcodec.NewEncoder(), Info{
			Codec:          CodecRaw,
			Backend:        BackendNative,
			RequestedCodec: CodecRaw,
		}, nil
	case CodecH264:
		return selectH264Encoder(opts)
	default:
		return nil, Info{}, fmt.Errorf("%w: %q", ErrUnknownCodec, preferred)
	}
}

func selectH264Encoder(opts Options) (ports.VideoEncoder, Info, error) {
	if ffmpegcodec.IsAvailable(opts.FFmpegPath) {
		return ffmpegcodec.NewEncoder(opts.FFmpegPath), Info{
			Codec:          CodecH264,
			Backend:        BackendFFmpeg,
			RequestedCodec: CodecH264,
		}, nil
	}

	if opts.DisableFallback {
		return nil, Info{}, ErrNoEncoderAvailable
	}

	if opts.Logger != nil {
		opts.Logger.Warn("H.264 encoder not available, falling back to raw")
	}

	return rawcodec.NewEncoder(), Info{
		Codec:          CodecRaw,
		Backend:        BackendNative,
		RequestedCodec: CodecH264,
		FallbackUsed:   true,
	}, nil
}

// IsH264Available checks if H.264 encoding is available.
func IsH264Available(ffmpegPath string) bool {
	return ffmpegcodec.IsAvailable(ffmpegPath)
}
