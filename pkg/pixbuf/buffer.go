// Package pixbuf provides the per-frame RGBA pixel buffer every transform
// reads and produces.
package pixbuf

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// BytesPerPixel is the size of one RGBA sample.
const BytesPerPixel = 4

var (
	// ErrInvalidDimensions is returned for a non-positive width or height.
	ErrInvalidDimensions = errors.New("pixbuf: invalid dimensions")

	// ErrSizeMismatch is returned when raw data does not hold exactly
	// width*height RGBA samples.
	ErrSizeMismatch = errors.New("pixbuf: pixel data size mismatch")

	// ErrNilImage is returned when converting a nil image.
	ErrNilImage = errors.New("pixbuf: nil image")
)

// Buffer is one frame's straight-alpha RGBA samples. Width and height are
// fixed for the lifetime of the buffer and the origin is always (0,0).
type Buffer struct {
	img *image.NRGBA
}

// New allocates a zeroed (fully transparent black) buffer.
func New(width, height int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	return &Buffer{img: image.NewNRGBA(image.Rect(0, 0, width, height))}, nil
}

// MustNew is like New but panics on invalid dimensions. Intended for tests
// and for callers that already hold validated dimensions.
func MustNew(width, height int) *Buffer {
	b, err := New(width, height)
	if err != nil {
		panic(err)
	}
	return b
}

// FromRGBA copies tightly packed RGBA bytes into a new buffer.
// pix is never retained, so the caller may reuse it.
func FromRGBA(width, height int, pix []byte) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	want := width * height * BytesPerPixel
	if len(pix) != want {
		return nil, fmt.Errorf("%w: got %d bytes, want %d for %dx%d", ErrSizeMismatch, len(pix), want, width, height)
	}
	b := &Buffer{img: image.NewNRGBA(image.Rect(0, 0, width, height))}
	copy(b.img.Pix, pix)
	return b, nil
}

// FromImage converts any image to a new buffer, normalizing the color model
// to straight RGBA and moving the bounds to the origin.
func FromImage(src image.Image) (*Buffer, error) {
	if src == nil {
		return nil, ErrNilImage
	}
	bounds := src.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, bounds.Dx(), bounds.Dy())
	}
	dst := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Src)
	return &Buffer{img: dst}, nil
}

// FromNRGBA takes ownership of img when it is already origin-based and
// tightly packed, and copies it otherwise.
func FromNRGBA(img *image.NRGBA) (*Buffer, error) {
	if img == nil {
		return nil, ErrNilImage
	}
	r := img.Rect
	if r.Min == (image.Point{}) && r.Dx() > 0 && r.Dy() > 0 && img.Stride == r.Dx()*BytesPerPixel {
		return &Buffer{img: img}, nil
	}
	return FromImage(img)
}

// Width returns the buffer width in pixels.
func (b *Buffer) Width() int { return b.img.Rect.Dx() }

// Height returns the buffer height in pixels.
func (b *Buffer) Height() int { return b.img.Rect.Dy() }

// At returns the sample at (x, y). Coordinates must be in range.
func (b *Buffer) At(x, y int) color.NRGBA {
	i := b.offset(x, y)
	p := b.img.Pix[i : i+4 : i+4]
	return color.NRGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}

// Set stores c at (x, y). Coordinates must be in range.
func (b *Buffer) Set(x, y int, c color.NRGBA) {
	i := b.offset(x, y)
	p := b.img.Pix[i : i+4 : i+4]
	p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
}

// Swap exchanges the samples at (x1, y1) and (x2, y2).
func (b *Buffer) Swap(x1, y1, x2, y2 int) {
	i, j := b.offset(x1, y1), b.offset(x2, y2)
	p := b.img.Pix
	p[i], p[j] = p[j], p[i]
	p[i+1], p[j+1] = p[j+1], p[i+1]
	p[i+2], p[j+2] = p[j+2], p[i+2]
	p[i+3], p[j+3] = p[j+3], p[i+3]
}

// Pix returns the underlying sample slice, row-major with no padding.
func (b *Buffer) Pix() []byte { return b.img.Pix }

// Image exposes the buffer as an image without copying.
func (b *Buffer) Image() *image.NRGBA { return b.img }

// SameSize reports whether o has the same dimensions as b.
func (b *Buffer) SameSize(o *Buffer) bool {
	return b.Width() == o.Width() && b.Height() == o.Height()
}

// Clone returns an independent copy of b.
func (b *Buffer) Clone() *Buffer {
	img := image.NewNRGBA(b.img.Rect)
	copy(img.Pix, b.img.Pix)
	return &Buffer{img: img}
}

// Equal reports whether both buffers have the same size and samples.
func (b *Buffer) Equal(o *Buffer) bool {
	if o == nil {
		return false
	}
	return b.SameSize(o) && bytes.Equal(b.img.Pix, o.img.Pix)
}

func (b *Buffer) offset(x, y int) int {
	return y*b.img.Stride + x*BytesPerPixel
}
