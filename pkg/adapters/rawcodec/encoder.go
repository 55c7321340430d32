// Package rawcodec stores frames losslessly: every frame is a zstd-compressed
// RGBA sample in a fragmented MP4 track. It needs no external tools and the
// output is byte-for-byte deterministic for the same frames.
package rawcodec

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/image/draw"

	"github.com/user/framefx/pkg/ports"
)

// Errors
var (
	ErrNotInitialized    = errors.New("rawcodec: encoder not initialized")
	ErrInvalidDimensions = errors.New("rawcodec: invalid dimensions")
	ErrFrameSize         = errors.New("rawcodec: frame size does not match stream")
)

// DefaultFramesPerFragment is the number of samples grouped in one moof/mdat pair.
const DefaultFramesPerFragment = 30

type encodedFrame struct {
	data        []byte
	timestampMs int
}

// Encoder implements ports.VideoEncoder for the raw codec.
type Encoder struct {
	framesPerFragment int

	mu      sync.Mutex
	zw      *zstd.Encoder
	width   int
	height  int
	fps     float64
	frames  []encodedFrame
	started bool
}

// NewEncoder creates a new raw encoder.
func NewEncoder() *Encoder {
	return &Encoder{framesPerFragment: DefaultFramesPerFragment}
}

// WithFramesPerFragment sets how many frames go into each fragment.
func (e *Encoder) WithFramesPerFragment(n int) *Encoder {
	if n > 0 {
		e.framesPerFragment = n
	}
	return e
}

// Begin initializes the encoder. Quality and bitrate are ignored; the codec is
// lossless.
func (e *Encoder) Begin(width, height int, fps float64, opts ports.EncoderOptions) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if width <= 0 || height <= 0 || width > 0xffff || height > 0xffff {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if fps <= 0 {
		fps = 30
	}

	zw, err := zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1))
	if err != nil {
		return fmt.Errorf("create zstd encoder: %w", err)
	}

	e.zw = zw
	e.width = width
	e.height = height
	e.fps = fps
	e.frames = nil
	e.started = true
	return nil
}

// EncodeFrame compresses a single frame.
func (e *Encoder) EncodeFrame(img image.Image, timestampMs int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return ErrNotInitialized
	}

	b := img.Bounds()
	if b.Dx() != e.width || b.Dy() != e.height {
		return fmt.Errorf("%w: got %dx%d, want %dx%d", ErrFrameSize, b.Dx(), b.Dy(), e.width, e.height)
	}

	pix := nrgbaPix(img)
	e.frames = append(e.frames, encodedFrame{
		data:        e.zw.EncodeAll(pix, make([]byte, 0, len(pix)/4)),
		timestampMs: timestampMs,
	})
	return nil
}

// End finalizes encoding and returns the MP4 data.
func (e *Encoder) End() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return nil, ErrNotInitialized
	}
	e.started = false
	defer func() {
		e.zw.Close()
		e.zw = nil
		e.frames = nil
	}()

	return buildMP4(e.width, e.height, e.fps, e.frames, e.framesPerFragment)
}

// nrgbaPix returns tightly packed straight-alpha samples for img.
func nrgbaPix(img image.Image) []byte {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) && n.Stride == 4*n.Rect.Dx() {
		return n.Pix
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst.Pix
}

var _ ports.VideoEncoder = (*Encoder)(nil)
