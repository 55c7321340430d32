// Package smartdecoder provides a video decoder that detects the codec of
// each input and selects the appropriate backend.
package smartdecoder

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/user/framefx/pkg/adapters/codecdetect"
	"github.com/user/framefx/pkg/adapters/ffmpegcodec"
	"github.com/user/framefx/pkg/adapters/rawcodec"
	"github.com/user/framefx/pkg/ports"
)

// Codec represents the video codec type (re-exported from codecdetect).
type Codec = codecdetect.Codec

const (
	// CodecRaw represents the lossless raw codec.
	CodecRaw = codecdetect.CodecRaw
	// CodecH264 represents H.264/AVC codec.
	CodecH264 = codecdetect.CodecH264
	// CodecUnknown represents an unknown codec.
	CodecUnknown = codecdetect.CodecUnknown
)

// Backend represents the decoding backend used.
type Backend string

const (
	// BackendNative represents the pure Go raw decoder.
	BackendNative Backend = "native"
	// BackendFFmpeg represents FFmpeg-based decoding.
	BackendFFmpeg Backend = "ffmpeg"
)

// Info contains information about the selected decoder.
type Info struct {
	// Codec is the detected codec.
	Codec Codec
	// Backend is the decoding backend being used.
	Backend Backend
}

// Options configures the smart decoder behavior.
type Options struct {
	// FFmpegPath is an optional custom path to the ffmpeg binary.
	FFmpegPath string
	// Logger reports the selected backend. May be nil.
	Logger ports.Logger
}

var (
	// ErrUnsupportedCodec is returned when the codec is not supported.
	ErrUnsupportedCodec = errors.New("smartdecoder: unsupported codec")
	// ErrNoDecoderAvailable is returned when no decoder is available for the codec.
	ErrNoDecoderAvailable = errors.New("smartdecoder: no decoder available")
)

// Decoder implements ports.VideoDecoder, choosing a backend per stream.
type Decoder struct {
	opts   Options
	inner  ports.VideoDecoder
	info   Info
	pinned bool
}

// New creates a decoder that probes each stream before decoding it.
func New(opts Options) *Decoder {
	return &Decoder{opts: opts}
}

// NewForCodec creates a decoder for a specific codec.
func NewForCodec(codec Codec, opts Options) (*Decoder, Info, error) {
	inner, info, err := createDecoder(codec, opts)
	if err != nil {
		return nil, Info{}, err
	}
	return &Decoder{opts: opts, inner: inner, info: info, pinned: true}, info, nil
}

// The selection flow:
//   - raw: pure Go decoder
//   - anything else ffmpeg recognizes: ffmpeg process
func createDecoder(codec Codec, opts Options) (ports.VideoDecoder, Info, error) {
	switch codec {
	case CodecRaw:
		return rawcodec.NewDecoder(), Info{Codec: CodecRaw, Backend: BackendNative}, nil

	case CodecUnknown, "":
		return nil, Info{}, ErrUnsupportedCodec

	default:
		if !ffmpegcodec.IsAvailable(opts.FFmpegPath) {
			return nil, Info{}, fmt.Errorf("%w: %s needs ffmpeg", ErrNoDecoderAvailable, codec)
		}
		return ffmpegcodec.NewDecoder(opts.FFmpegPath), Info{Codec: codec, Backend: BackendFFmpeg}, nil
	}
}

// ReadStream detects the codec of the stream and decodes every frame with the
// matching backend. A decoder from NewForCodec always uses its fixed backend.
// Inputs that are not MP4 go to ffmpeg when it is available.
func (d *Decoder) ReadStream(ctx context.Context, reader io.ReadSeeker) (*ports.DecodedStream, error) {
	if d.pinned {
		return d.inner.ReadStream(ctx, reader)
	}

	codec, err := codecdetect.DetectFromReader(reader)
	if err != nil {
		if !ffmpegcodec.IsAvailable(d.opts.FFmpegPath) {
			return nil, fmt.Errorf("%w: %w", ErrNoDecoderAvailable, err)
		}
		if _, err := reader.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("seek: %w", err)
		}
		d.use(ffmpegcodec.NewDecoder(d.opts.FFmpegPath), Info{Codec: CodecUnknown, Backend: BackendFFmpeg})
		return d.inner.ReadStream(ctx, reader)
	}

	if d.inner == nil || d.info.Codec != codec {
		inner, info, err := createDecoder(codec, d.opts)
		if err != nil {
			return nil, err
		}
		d.use(inner, info)
	}
	return d.inner.ReadStream(ctx, reader)
}

// use replaces the current backend, closing the previous one.
func (d *Decoder) use(inner ports.VideoDecoder, info Info) {
	if d.inner != nil {
		d.inner.Close()
	}
	d.inner, d.info = inner, info
	if d.opts.Logger != nil {
		d.opts.Logger.Debug("Using %s decoder", fmt.Sprintf("%s/%s", info.Codec, info.Backend))
	}
}

// Close releases decoder resources.
func (d *Decoder) Close() {
	if d.inner != nil {
		d.inner.Close()
	}
}

// Info returns information about the backend used for the last stream. It is
// empty until a stream has been read or the codec was fixed with NewForCodec.
func (d *Decoder) Info() Info {
	return d.info
}

// DetectCodecFromBytes detects the codec from MP4 data without creating a decoder.
func DetectCodecFromBytes(data []byte) (Codec, error) {
	return codecdetect.DetectFromBytes(data)
}

// IsFFmpegAvailable reports whether codecs other than raw can be decoded.
func IsFFmpegAvailable(ffmpegPath string) bool {
	return ffmpegcodec.IsAvailable(ffmpegPath)
}

// Ensure Decoder implements ports.VideoDecoder
var _ ports.VideoDecoder = (*Decoder)(nil)
