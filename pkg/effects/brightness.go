package effects

import (
	"math"

	"github.com/user/framefx/pkg/pixbuf"
)

// DefaultBrightness is the factor used by operation code 1.
const DefaultBrightness = 1.2

// Brightness multiplies R, G and B of every pixel by factor, rounding to the
// nearest integer and clamping to [0, 255]. Alpha is left untouched.
// The buffer is updated in place and returned.
func Brightness(buf *pixbuf.Buffer, factor float64) *pixbuf.Buffer {
	pix := buf.Pix()
	for i := 0; i+3 < len(pix); i += pixbuf.BytesPerPixel {
		pix[i] = scaleChannel(pix[i], factor)
		pix[i+1] = scaleChannel(pix[i+1], factor)
		pix[i+2] = scaleChannel(pix[i+2], factor)
	}
	return buf
}

func scaleChannel(v uint8, factor float64) uint8 {
	s := math.Round(float64(v) * factor)
	switch {
	case s <= 0 || math.IsNaN(s):
		return 0
	case s >= 255:
		return 255
	default:
		return uint8(s)
	}
}
