// Package effects implements the per-frame pixel transforms and the
// operation-code dispatcher that selects one of them for a run.
//
// Every transform returns a buffer of the same width and height as its input.
// Transforms whose output pixel depends only on the same input pixel, or on a
// pixel they swap with, work in place and return their argument; the others
// allocate a new buffer.
package effects

import (
	"github.com/user/framefx/pkg/pixbuf"
)

// Effect is a single frame transform.
type Effect interface {
	// Apply transforms buf. frameIndex is the decode-order position of the
	// frame; only order-dependent effects read it.
	Apply(buf *pixbuf.Buffer, frameIndex uint64) *pixbuf.Buffer

	// Name returns the effect name for identification.
	Name() string
}

// BrightnessEffect scales the color channels by a constant factor.
type BrightnessEffect struct {
	Factor float64
}

// Apply implements Effect.
func (e BrightnessEffect) Apply(buf *pixbuf.Buffer, _ uint64) *pixbuf.Buffer {
	return Brightness(buf, e.Factor)
}

// Name implements Effect.
func (e BrightnessEffect) Name() string { return "brightness" }

// FlipHorizontalEffect mirrors each row.
type FlipHorizontalEffect struct{}

// Apply implements Effect.
func (FlipHorizontalEffect) Apply(buf *pixbuf.Buffer, _ uint64) *pixbuf.Buffer {
	return FlipHorizontal(buf)
}

// Name implements Effect.
func (FlipHorizontalEffect) Name() string { return "flip-horizontal" }

// FlipVerticalEffect mirrors each column.
type FlipVerticalEffect struct{}

// Apply implements Effect.
func (FlipVerticalEffect) Apply(buf *pixbuf.Buffer, _ uint64) *pixbuf.Buffer {
	return FlipVertical(buf)
}

// Name implements Effect.
func (FlipVerticalEffect) Name() string { return "flip-vertical" }

// ShakeEffect jitters the frame by ShakeOffset pixels, alternating direction
// with frame parity.
type ShakeEffect struct{}

// Apply implements Effect.
func (ShakeEffect) Apply(buf *pixbuf.Buffer, frameIndex uint64) *pixbuf.Buffer {
	return Shake(buf, frameIndex)
}

// Name implements Effect.
func (ShakeEffect) Name() string { return "shake" }

// DeformedMirrorEffect folds the columns about the quarter-width point and
// resamples the result.
type DeformedMirrorEffect struct{}

// Apply implements Effect.
func (DeformedMirrorEffect) Apply(buf *pixbuf.Buffer, _ uint64) *pixbuf.Buffer {
	return DeformedMirror(buf)
}

// Name implements Effect.
func (DeformedMirrorEffect) Name() string { return "deformed-mirror" }

var (
	_ Effect = BrightnessEffect{}
	_ Effect = FlipHorizontalEffect{}
	_ Effect = FlipVerticalEffect{}
	_ Effect = ShakeEffect{}
	_ Effect = DeformedMirrorEffect{}
)
