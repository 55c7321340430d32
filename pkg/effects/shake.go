package effects

import (
	"github.com/user/framefx/pkg/pixbuf"
)

// ShakeOffset is the jitter distance in pixels on both axes.
const ShakeOffset = 5

// ShakeShift returns the signed offset applied to a frame: +ShakeOffset for
// odd frame indices and -ShakeOffset for even ones.
func ShakeShift(frameIndex uint64) int {
	if frameIndex%2 == 1 {
		return ShakeOffset
	}
	return -ShakeOffset
}

// Shake builds a new buffer where each destination pixel (x, y) takes the
// source pixel at ((x+s) % W, (y+s) % H), s being ShakeShift(frameIndex).
// The remainder keeps the sign of the dividend, so negative source
// coordinates occur for s < 0; those destination pixels stay transparent
// black. The resulting border is part of the effect.
func Shake(buf *pixbuf.Buffer, frameIndex uint64) *pixbuf.Buffer {
	w, h := buf.Width(), buf.Height()
	s := ShakeShift(frameIndex)
	out := pixbuf.MustNew(w, h)

	for y := 0; y < h; y++ {
		ny := (y + s) % h
		if ny < 0 || ny >= h {
			continue
		}
		for x := 0; x < w; x++ {
			nx := (x + s) % w
			if nx < 0 || nx >= w {
				continue
			}
			out.Set(x, y, buf.At(nx, ny))
		}
	}
	return out
}
