package effects

import (
	"github.com/user/framefx/pkg/pixbuf"
)

// FlipHorizontal swaps (x, y) with (W-1-x, y) for every x < W/2, in place.
// The center column of an odd-width buffer is untouched.
func FlipHorizontal(buf *pixbuf.Buffer) *pixbuf.Buffer {
	w, h := buf.Width(), buf.Height()
	for y := 0; y < h; y++ {
		for x := 0; x < w/2; x++ {
			buf.Swap(x, y, w-1-x, y)
		}
	}
	return buf
}

// FlipVertical swaps (x, y) with (x, H-1-y) for every y < H/2, in place.
func FlipVertical(buf *pixbuf.Buffer) *pixbuf.Buffer {
	w, h := buf.Width(), buf.Height()
	for x := 0; x < w; x++ {
		for y := 0; y < h/2; y++ {
			buf.Swap(x, y, x, h-1-y)
		}
	}
	return buf
}
