package effects

import (
	"errors"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/framefx/pkg/pipeline"
	"github.com/user/framefx/pkg/pixbuf"
)

// gradient fills a buffer with distinct, position-derived samples.
func gradient(w, h int) *pixbuf.Buffer {
	b := pixbuf.MustNew(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			b.Set(x, y, color.NRGBA{R: uint8(x * 10), G: uint8(y * 10), B: uint8(x + y), A: uint8(200 + x)})
		}
	}
	return b
}

func TestBrightness_Identity(t *testing.T) {
	b := gradient(5, 3)
	want := b.Clone()

	got := Brightness(b, 1.0)
	assert.True(t, want.Equal(got))
}

func TestBrightness_DefaultFactor(t *testing.T) {
	b := pixbuf.MustNew(4, 1)
	b.Set(0, 0, color.NRGBA{R: 100, G: 0, B: 255, A: 7})
	b.Set(1, 0, color.NRGBA{R: 212, G: 213, B: 1, A: 255})
	b.Set(2, 0, color.NRGBA{R: 3, G: 2, B: 52, A: 0})
	b.Set(3, 0, color.NRGBA{R: 10, G: 11, B: 12, A: 128})

	got := Brightness(b, DefaultBrightness)

	assert.Same(t, b, got, "brightness works in place")
	assert.Equal(t, color.NRGBA{R: 120, G: 0, B: 255, A: 7}, got.At(0, 0))
	// 212*1.2 = 254.4 rounds down, 213*1.2 = 255.6 clamps.
	assert.Equal(t, color.NRGBA{R: 254, G: 255, B: 1, A: 255}, got.At(1, 0))
	// 3*1.2 = 3.6 and 2*1.2 = 2.4 round to nearest, 52*1.2 = 62.4.
	assert.Equal(t, color.NRGBA{R: 4, G: 2, B: 62, A: 0}, got.At(2, 0))
	assert.Equal(t, color.NRGBA{R: 12, G: 13, B: 14, A: 128}, got.At(3, 0))
}

func TestBrightness_Clamps(t *testing.T) {
	b := pixbuf.MustNew(1, 1)
	b.Set(0, 0, color.NRGBA{R: 200, G: 50, B: 0, A: 9})

	Brightness(b, -1)
	assert.Equal(t, color.NRGBA{A: 9}, b.At(0, 0))
}

func TestFlipHorizontal(t *testing.T) {
	b := gradient(3, 2)
	orig := b.Clone()

	FlipHorizontal(b)

	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			assert.Equal(t, orig.At(2-x, y), b.At(x, y), "pixel (%d,%d)", x, y)
		}
	}
}

func TestFlipVertical(t *testing.T) {
	b := gradient(2, 3)
	orig := b.Clone()

	FlipVertical(b)

	for y := 0; y < 3; y++ {
		for x := 0; x < 2; x++ {
			assert.Equal(t, orig.At(x, 2-y), b.At(x, y), "pixel (%d,%d)", x, y)
		}
	}
}

func TestFlips_AreInvolutions(t *testing.T) {
	sizes := [][2]int{{1, 1}, {2, 2}, {3, 5}, {7, 4}, {9, 9}}
	for _, s := range sizes {
		b := gradient(s[0], s[1])
		orig := b.Clone()

		assert.True(t, orig.Equal(FlipHorizontal(FlipHorizontal(b))), "horizontal %dx%d", s[0], s[1])
		assert.True(t, orig.Equal(FlipVertical(FlipVertical(b))), "vertical %dx%d", s[0], s[1])
	}
}

func TestShake_Shift(t *testing.T) {
	assert.Equal(t, -5, ShakeShift(0))
	assert.Equal(t, 5, ShakeShift(1))
	assert.Equal(t, -5, ShakeShift(2))
	assert.Equal(t, 5, ShakeShift(1<<63+1))
}

func TestShake_OddFrameWraps(t *testing.T) {
	b := gradient(8, 6)
	got := Shake(b, 1)

	require.Equal(t, 8, got.Width())
	require.Equal(t, 6, got.Height())
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			assert.Equal(t, b.At((x+5)%8, (y+5)%6), got.At(x, y), "pixel (%d,%d)", x, y)
		}
	}
}

func TestShake_EvenFrameLeavesBorder(t *testing.T) {
	b := gradient(8, 6)
	got := Shake(b, 0)

	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			if x < 5 || y < 5 {
				assert.Equal(t, color.NRGBA{}, got.At(x, y), "pixel (%d,%d) should be transparent", x, y)
				continue
			}
			assert.Equal(t, b.At(x-5, y-5), got.At(x, y), "pixel (%d,%d)", x, y)
		}
	}
}

func TestShake_DoesNotModifyInput(t *testing.T) {
	b := gradient(6, 6)
	orig := b.Clone()
	Shake(b, 3)
	assert.True(t, orig.Equal(b))
}

func TestFoldColumn(t *testing.T) {
	assert.Equal(t, []int{2, 1, 0, 1}, []int{FoldColumn(0, 4), FoldColumn(1, 4), FoldColumn(2, 4), FoldColumn(3, 4)})
	assert.Equal(t, []int{2, 1, 0, 1, 2}, []int{FoldColumn(0, 5), FoldColumn(1, 5), FoldColumn(2, 5), FoldColumn(3, 5), FoldColumn(4, 5)})
	assert.Equal(t, 0, FoldColumn(0, 1))
}

func TestFold(t *testing.T) {
	a := color.NRGBA{R: 1, A: 255}
	bb := color.NRGBA{G: 2, A: 255}
	c := color.NRGBA{B: 3, A: 255}
	d := color.NRGBA{R: 4, G: 4, A: 255}

	src := pixbuf.MustNew(4, 2)
	for y := 0; y < 2; y++ {
		src.Set(0, y, a)
		src.Set(1, y, bb)
		src.Set(2, y, c)
		src.Set(3, y, d)
	}

	got := Fold(src)
	for y := 0; y < 2; y++ {
		assert.Equal(t, []color.NRGBA{c, bb, a, bb},
			[]color.NRGBA{got.At(0, y), got.At(1, y), got.At(2, y), got.At(3, y)})
	}
}

func TestDeformedMirror_UniformImage(t *testing.T) {
	fill := color.NRGBA{R: 90, G: 160, B: 30, A: 255}
	b := pixbuf.MustNew(16, 9)
	for y := 0; y < 9; y++ {
		for x := 0; x < 16; x++ {
			b.Set(x, y, fill)
		}
	}

	got := DeformedMirror(b)
	require.Equal(t, 16, got.Width())
	require.Equal(t, 9, got.Height())

	for y := 0; y < 9; y++ {
		for x := 0; x < 16; x++ {
			p := got.At(x, y)
			assert.InDelta(t, fill.R, p.R, 1)
			assert.InDelta(t, fill.G, p.G, 1)
			assert.InDelta(t, fill.B, p.B, 1)
			assert.InDelta(t, fill.A, p.A, 1)
		}
	}
}

func TestDeformedMirror_PreservesSize(t *testing.T) {
	for _, s := range [][2]int{{1, 1}, {3, 2}, {17, 5}} {
		got := DeformedMirror(gradient(s[0], s[1]))
		assert.Equal(t, s[0], got.Width())
		assert.Equal(t, s[1], got.Height())
	}
}

func TestLanczos3Kernel(t *testing.T) {
	assert.InDelta(t, 1.0, lanczos3(0), 1e-12)
	assert.InDelta(t, 0.0, lanczos3(1), 1e-12)
	assert.InDelta(t, 0.0, lanczos3(2), 1e-12)
	assert.Equal(t, 0.0, lanczos3(3))
	assert.Equal(t, lanczos3(0.5), lanczos3(-0.5))
}

func TestParseOperation(t *testing.T) {
	for code := uint8(1); code <= 5; code++ {
		op, err := ParseOperation(code)
		require.NoError(t, err)
		assert.Equal(t, Operation(code), op)
	}

	for _, code := range []uint8{0, 6, 255} {
		_, err := ParseOperation(code)
		assert.ErrorIs(t, err, ErrInvalidOperation, "code %d", code)
		assert.True(t, errors.Is(err, pipeline.ErrInvalidOperationCode), "code %d", code)
	}
}

func TestParseOperationName(t *testing.T) {
	tests := []struct {
		in   string
		want Operation
	}{
		{"brightness", OpBrightness},
		{"Flip-Horizontal", OpFlipHorizontal},
		{"3", OpFlipVertical},
		{" shake ", OpShake},
		{"deformed-mirror", OpDeformedMirror},
	}
	for _, tt := range tests {
		got, err := ParseOperationName(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	for _, bad := range []string{"", "blur", "0", "6", "04", "1x"} {
		_, err := ParseOperationName(bad)
		assert.ErrorIs(t, err, ErrInvalidOperation, "input %q", bad)
	}
}

func TestOperation_Apply(t *testing.T) {
	for _, op := range Operations() {
		t.Run(op.String(), func(t *testing.T) {
			b := gradient(6, 4)
			want := b.Clone()

			e, err := op.Effect()
			require.NoError(t, err)
			want = e.Apply(want, 7)

			got, err := op.Apply(b, 7)
			require.NoError(t, err)
			assert.True(t, want.Equal(got))
			assert.Equal(t, op.String(), e.Name())
		})
	}
}

func TestOperation_ApplyInvalid(t *testing.T) {
	b := gradient(2, 2)
	got, err := Operation(0).Apply(b, 0)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, pipeline.ErrInvalidOperationCode)

	_, err = Operation(6).Effect()
	assert.ErrorIs(t, err, ErrInvalidOperation)
	assert.Equal(t, "operation(6)", Operation(6).String())
	assert.False(t, Operation(6).Valid())
}
