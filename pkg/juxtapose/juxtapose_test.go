package juxtapose

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"testing"

	"github.com/user/framefx/pkg/adapters/logger"
	"github.com/user/framefx/pkg/mocks"
	"github.com/user/framefx/pkg/ports"
)

func solidFrame(w, h int, c color.NRGBA, ts int) ports.VideoFrame {
	pix := make([]byte, w*h*4)
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = c.R, c.G, c.B, c.A
	}
	return ports.VideoFrame{Width: w, Height: h, Pix: pix, TimestampMs: ts, Duration: 100}
}

var (
	red  = color.NRGBA{R: 255, A: 255}
	blue = color.NRGBA{B: 255, A: 255}
)

// pathDecoder decodes the file contents "left" and "right" to fixed streams.
func pathDecoder(left, right *ports.DecodedStream) *mocks.VideoDecoder {
	return &mocks.VideoDecoder{
		ReadStreamFunc: func(ctx context.Context, reader io.ReadSeeker) (*ports.DecodedStream, error) {
			data, _ := io.ReadAll(reader)
			if bytes.Equal(data, []byte("left")) {
				return left, nil
			}
			return right, nil
		},
	}
}

func TestStage_Execute(t *testing.T) {
	left := &ports.DecodedStream{
		Info:   ports.StreamInfo{Width: 2, Height: 2, FPS: 10},
		Frames: []ports.VideoFrame{solidFrame(2, 2, red, 0), solidFrame(2, 2, red, 100)},
	}
	right := &ports.DecodedStream{
		Info:   ports.StreamInfo{Width: 3, Height: 4, FPS: 10},
		Frames: []ports.VideoFrame{solidFrame(3, 4, blue, 0)},
	}

	fs := mocks.NewFileSystem()
	fs.WriteFile("left.mp4", []byte("left"))
	fs.WriteFile("right.mp4", []byte("right"))
	encoder := &mocks.VideoEncoder{}

	opts := DefaultOptions()
	opts.Gap = 1
	stage := New(pathDecoder(left, right), encoder, fs, logger.NewNoop(), opts)

	result, err := stage.Execute(context.Background(), Input{
		LeftPath:   "left.mp4",
		RightPath:  "right.mp4",
		OutputPath: "compare.mp4",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Width != 6 || result.Height != 4 {
		t.Errorf("expected 6x4 output, got %dx%d", result.Width, result.Height)
	}
	if encoder.BeginWidth != 6 || encoder.BeginHeight != 4 || encoder.BeginFPS != 10 {
		t.Errorf("unexpected Begin(%d, %d, %v)", encoder.BeginWidth, encoder.BeginHeight, encoder.BeginFPS)
	}
	if result.FrameCount != 2 || len(encoder.EncodeFrameCalls) != 2 {
		t.Fatalf("expected 2 frames, got %d (%d encoded)", result.FrameCount, len(encoder.EncodeFrameCalls))
	}
	if result.DurationMs != 200 {
		t.Errorf("expected 200ms duration, got %d", result.DurationMs)
	}

	for i, call := range encoder.EncodeFrameCalls {
		img := call.Image.(*image.NRGBA)
		if got := img.NRGBAAt(0, 1); got != red {
			t.Errorf("frame %d: expected left video centered vertically, got %v at (0,1)", i, got)
		}
		if got := img.NRGBAAt(0, 0); got != (color.NRGBA{A: 255}) {
			t.Errorf("frame %d: expected black letterbox at (0,0), got %v", i, got)
		}
		if got := img.NRGBAAt(2, 0); got != (color.NRGBA{A: 255}) {
			t.Errorf("frame %d: expected black gap at (2,0), got %v", i, got)
		}
		if got := img.NRGBAAt(5, 3); got != blue {
			t.Errorf("frame %d: expected right video held at (5,3), got %v", i, got)
		}
	}
	if encoder.EncodeFrameCalls[1].TimestampMs != 100 {
		t.Errorf("expected second frame at 100ms, got %d", encoder.EncodeFrameCalls[1].TimestampMs)
	}

	if _, ok := fs.GetFile("compare.mp4"); !ok {
		t.Error("expected output to be written")
	}
}

func TestStage_Execute_Errors(t *testing.T) {
	empty := &ports.DecodedStream{}
	fs := mocks.NewFileSystem()
	fs.WriteFile("left.mp4", []byte("left"))

	stage := New(pathDecoder(empty, empty), &mocks.VideoEncoder{}, fs, logger.NewNoop(), DefaultOptions())

	_, err := stage.Execute(context.Background(), Input{LeftPath: "left.mp4", RightPath: "left.mp4"})
	if !errors.Is(err, ErrNoFrames) {
		t.Errorf("expected ErrNoFrames, got %v", err)
	}

	_, err = stage.Execute(context.Background(), Input{LeftPath: "missing.mp4"})
	if err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestFrameIndexAt(t *testing.T) {
	frames := []ports.VideoFrame{{TimestampMs: 10}, {TimestampMs: 50}, {TimestampMs: 90}}

	tests := []struct {
		ts       int
		expected int
	}{
		{0, 0},
		{10, 0},
		{49, 0},
		{50, 1},
		{200, 2},
	}

	for _, tt := range tests {
		if got := frameIndexAt(frames, tt.ts); got != tt.expected {
			t.Errorf("frameIndexAt(%d) = %d, expected %d", tt.ts, got, tt.expected)
		}
	}
}
