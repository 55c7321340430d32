package effects

import (
	"math"

	"golang.org/x/image/draw"

	"github.com/user/framefx/pkg/pixbuf"
)

// Lanczos3 is the three-lobe Lanczos resampling kernel.
var Lanczos3 = &draw.Kernel{Support: 3, At: lanczos3}

func lanczos3(t float64) float64 {
	if t < 0 {
		t = -t
	}
	if t >= 3 {
		return 0
	}
	return sinc(t) * sinc(t/3)
}

func sinc(t float64) float64 {
	if t == 0 {
		return 1
	}
	t *= math.Pi
	return math.Sin(t) / t
}

// FoldColumn returns the source column for destination column x of a buffer
// of width w: w/2-x in the left half and x-w/2 in the right half.
func FoldColumn(x, w int) int {
	half := w / 2
	if x < half {
		return half - x
	}
	return x - half
}

// Fold copies whole columns into a new buffer following FoldColumn. Rows are
// unchanged.
func Fold(buf *pixbuf.Buffer) *pixbuf.Buffer {
	w, h := buf.Width(), buf.Height()
	out := pixbuf.MustNew(w, h)
	for x := 0; x < w; x++ {
		sx := FoldColumn(x, w)
		for y := 0; y < h; y++ {
			out.Set(x, y, buf.At(sx, y))
		}
	}
	return out
}

// Resample scales buf to width x height with the Lanczos3 kernel. It always
// runs the filter, including when the size is unchanged.
func Resample(buf *pixbuf.Buffer, width, height int) *pixbuf.Buffer {
	dst := pixbuf.MustNew(width, height)
	src := buf.Image()
	Lanczos3.Scale(dst.Image(), dst.Image().Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// DeformedMirror folds the columns with Fold and resamples the result back to
// the original size.
func DeformedMirror(buf *pixbuf.Buffer) *pixbuf.Buffer {
	return Resample(Fold(buf), buf.Width(), buf.Height())
}
