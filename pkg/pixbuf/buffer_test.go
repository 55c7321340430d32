package pixbuf

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestNew(t *testing.T) {
	b, err := New(3, 2)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if b.Width() != 3 || b.Height() != 2 {
		t.Errorf("expected 3x2, got %dx%d", b.Width(), b.Height())
	}
	if len(b.Pix()) != 3*2*4 {
		t.Errorf("expected %d bytes, got %d", 3*2*4, len(b.Pix()))
	}
	for i, v := range b.Pix() {
		if v != 0 {
			t.Fatalf("expected zeroed buffer, byte %d is %d", i, v)
		}
	}
}

func TestNew_InvalidDimensions(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{"zero width", 0, 4},
		{"zero height", 4, 0},
		{"negative", -1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.width, tt.height)
			if !errors.Is(err, ErrInvalidDimensions) {
				t.Errorf("expected ErrInvalidDimensions, got %v", err)
			}
		})
	}
}

func TestFromRGBA(t *testing.T) {
	pix := []byte{
		1, 2, 3, 4, 5, 6, 7, 8,
		9, 10, 11, 12, 13, 14, 15, 16,
	}

	b, err := FromRGBA(2, 2, pix)
	if err != nil {
		t.Fatalf("FromRGBA failed: %v", err)
	}

	if got := b.At(1, 0); got != (color.NRGBA{R: 5, G: 6, B: 7, A: 8}) {
		t.Errorf("unexpected pixel at (1,0): %v", got)
	}
	if got := b.At(0, 1); got != (color.NRGBA{R: 9, G: 10, B: 11, A: 12}) {
		t.Errorf("unexpected pixel at (0,1): %v", got)
	}

	// The source slice must not be aliased.
	pix[0] = 99
	if b.At(0, 0).R != 1 {
		t.Error("buffer aliases the source slice")
	}
}

func TestFromRGBA_SizeMismatch(t *testing.T) {
	_, err := FromRGBA(2, 2, make([]byte, 15))
	if !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("expected ErrSizeMismatch, got %v", err)
	}

	_, err = FromRGBA(0, 2, nil)
	if !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("expected ErrInvalidDimensions, got %v", err)
	}
}

func TestFromImage_NormalizesBoundsAndModel(t *testing.T) {
	src := image.NewGray(image.Rect(10, 20, 13, 22))
	src.SetGray(10, 20, color.Gray{Y: 200})

	b, err := FromImage(src)
	if err != nil {
		t.Fatalf("FromImage failed: %v", err)
	}
	if b.Width() != 3 || b.Height() != 2 {
		t.Fatalf("expected 3x2, got %dx%d", b.Width(), b.Height())
	}
	if got := b.At(0, 0); got != (color.NRGBA{R: 200, G: 200, B: 200, A: 255}) {
		t.Errorf("unexpected pixel at origin: %v", got)
	}
	if b.Image().Rect.Min != (image.Point{}) {
		t.Errorf("expected origin bounds, got %v", b.Image().Rect)
	}
}

func TestFromImage_Nil(t *testing.T) {
	if _, err := FromImage(nil); !errors.Is(err, ErrNilImage) {
		t.Errorf("expected ErrNilImage, got %v", err)
	}
}

func TestSwapAndClone(t *testing.T) {
	b := MustNew(2, 1)
	b.Set(0, 0, color.NRGBA{R: 1, A: 255})
	b.Set(1, 0, color.NRGBA{G: 2, A: 128})

	c := b.Clone()
	b.Swap(0, 0, 1, 0)

	if b.At(0, 0) != (color.NRGBA{G: 2, A: 128}) || b.At(1, 0) != (color.NRGBA{R: 1, A: 255}) {
		t.Errorf("swap did not exchange pixels: %v %v", b.At(0, 0), b.At(1, 0))
	}
	if c.At(0, 0) != (color.NRGBA{R: 1, A: 255}) {
		t.Error("clone shares storage with original")
	}
	if b.Equal(c) {
		t.Error("expected buffers to differ after swap")
	}
	b.Swap(0, 0, 1, 0)
	if !b.Equal(c) {
		t.Error("expected buffers to match after swapping back")
	}
}
