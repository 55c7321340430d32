package ffmpegcodec

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/user/framefx/pkg/ports"
)

func TestEncodeArgs(t *testing.T) {
	args := strings.Join(encodeArgs(640, 480, 30, ports.EncoderOptions{Quality: 63, Bitrate: 800}, "out.mp4"), " ")

	for _, want := range []string{"-s 640x480", "-r 30.000", "-pix_fmt yuv420p", "-crf 51", "-b:v 800k", "out.mp4"} {
		if !strings.Contains(args, want) {
			t.Errorf("expected %q in %q", want, args)
		}
	}
}

func TestEncodeArgs_OddDimensions(t *testing.T) {
	args := strings.Join(encodeArgs(5, 3, 25, ports.EncoderOptions{}, "out.mp4"), " ")
	if !strings.Contains(args, "-pix_fmt yuv444p") {
		t.Errorf("expected 4:4:4 output for odd size, got %q", args)
	}
	if !strings.Contains(args, "-crf 23") {
		t.Errorf("expected default crf, got %q", args)
	}
}

func TestSplitFrames(t *testing.T) {
	data := make([]byte, 3*2*2*4)
	data[16] = 7 // first byte of frame 1

	frames, err := splitFrames(data, 2, 2, 25)
	if err != nil {
		t.Fatalf("splitFrames failed: %v", err)
	}
	if len(frames) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(frames))
	}
	if frames[1].Pix[0] != 7 {
		t.Errorf("frame 1 starts at wrong offset")
	}
	if frames[2].TimestampMs != 80 || frames[2].Duration != 40 {
		t.Errorf("unexpected timing %d/%d", frames[2].TimestampMs, frames[2].Duration)
	}
	if cap(frames[0].Pix) != 16 {
		t.Errorf("frame slices must not extend into the next frame")
	}
}

func TestSplitFrames_Truncated(t *testing.T) {
	_, err := splitFrames(make([]byte, 17), 2, 2, 25)
	if !errors.Is(err, ErrTruncatedFrame) {
		t.Errorf("expected ErrTruncatedFrame, got %v", err)
	}
}

func TestFindFFmpeg_CustomPathMissing(t *testing.T) {
	_, err := FindFFmpeg("/nonexistent/ffmpeg")
	if !errors.Is(err, ErrFFmpegNotFound) {
		t.Errorf("expected ErrFFmpegNotFound, got %v", err)
	}
}

func TestEncoder_NotInitialized(t *testing.T) {
	enc := NewEncoder("")
	if err := enc.EncodeFrame(image.NewNRGBA(image.Rect(0, 0, 2, 2)), 0); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
	if _, err := enc.End(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	if !IsAvailable("") {
		t.Skip("ffmpeg not available")
	}

	const w, h = 32, 16
	enc := NewEncoder("")
	if err := enc.Begin(w, h, 10, ports.EncoderOptions{Quality: 1}); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		img := image.NewNRGBA(image.Rect(0, 0, w, h))
		for j := range img.Pix {
			img.Pix[j] = 128
		}
		img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
		if err := enc.EncodeFrame(img, i*100); err != nil {
			t.Fatalf("EncodeFrame failed: %v", err)
		}
	}
	data, err := enc.End()
	if err != nil {
		// Builds without libx264 fail here.
		t.Skipf("ffmpeg could not encode: %v", err)
	}

	stream, err := NewDecoder("").ReadStream(context.Background(), bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadStream failed: %v", err)
	}
	if stream.Info.Width != w || stream.Info.Height != h {
		t.Errorf("expected %dx%d, got %dx%d", w, h, stream.Info.Width, stream.Info.Height)
	}
	if len(stream.Frames) != 5 {
		t.Errorf("expected 5 frames, got %d", len(stream.Frames))
	}
}
