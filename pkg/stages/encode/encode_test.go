package encode

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/user/framefx/pkg/adapters/logger"
	"github.com/user/framefx/pkg/mocks"
	"github.com/user/framefx/pkg/pipeline"
	"github.com/user/framefx/pkg/pixbuf"
	"github.com/user/framefx/pkg/ports"
)

func frames(n, w, h, stepMs int) []pipeline.TransformedFrame {
	out := make([]pipeline.TransformedFrame, n)
	for i := range out {
		out[i] = pipeline.TransformedFrame{Index: i, TimestampMs: i * stepMs, Buffer: pixbuf.MustNew(w, h)}
	}
	return out
}

func TestStage_Execute(t *testing.T) {
	mockEncoder := &mocks.VideoEncoder{}

	stage := NewStage(mockEncoder, logger.NewNoop())

	input := pipeline.EncodeInput{
		Frames:  frames(3, 64, 48, 40),
		Width:   64,
		Height:  48,
		Quality: 30,
		Bitrate: 1000,
		FPS:     25.0,
	}

	result, err := stage.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Check encoder was called correctly
	if !mockEncoder.BeginCalled {
		t.Error("expected Begin to be called")
	}
	if !mockEncoder.EndCalled {
		t.Error("expected End to be called")
	}
	if mockEncoder.BeginWidth != 64 || mockEncoder.BeginHeight != 48 || mockEncoder.BeginFPS != 25.0 {
		t.Errorf("unexpected Begin arguments %dx%d @ %v", mockEncoder.BeginWidth, mockEncoder.BeginHeight, mockEncoder.BeginFPS)
	}
	if mockEncoder.BeginOptions != (ports.EncoderOptions{Bitrate: 1000, Quality: 30}) {
		t.Errorf("unexpected encoder options %+v", mockEncoder.BeginOptions)
	}

	if len(mockEncoder.EncodeFrameCalls) != 3 {
		t.Errorf("expected 3 EncodeFrame calls, got %d", len(mockEncoder.EncodeFrameCalls))
	}
	if result.FrameCount != 3 {
		t.Errorf("expected frame count 3, got %d", result.FrameCount)
	}

	// Last frame starts at 80ms and lasts one frame interval.
	if result.DurationMs != 120 {
		t.Errorf("expected duration 120, got %d", result.DurationMs)
	}

	if len(result.VideoData) == 0 || result.FileSize != int64(len(result.VideoData)) {
		t.Errorf("expected video data, got %d bytes (size %d)", len(result.VideoData), result.FileSize)
	}
}

func TestStage_Execute_FrameOrder(t *testing.T) {
	mockEncoder := &mocks.VideoEncoder{}
	stage := NewStage(mockEncoder, logger.NewNoop())

	input := pipeline.EncodeInput{Frames: frames(4, 8, 8, 500), Width: 8, Height: 8, FPS: 2}
	if _, err := stage.Execute(context.Background(), input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expectedTimestamps := []int{0, 500, 1000, 1500}
	for i, call := range mockEncoder.EncodeFrameCalls {
		if call.TimestampMs != expectedTimestamps[i] {
			t.Errorf("call %d: expected timestamp %d, got %d", i, expectedTimestamps[i], call.TimestampMs)
		}
		if call.Image != input.Frames[i].Buffer.Image() {
			t.Errorf("call %d: frame submitted out of order", i)
		}
	}
}

func TestStage_Execute_DimensionMismatch(t *testing.T) {
	mockEncoder := &mocks.VideoEncoder{}
	stage := NewStage(mockEncoder, logger.NewNoop())

	in := frames(3, 8, 8, 40)
	in[2].Buffer = pixbuf.MustNew(8, 7)

	_, err := stage.Execute(context.Background(), pipeline.EncodeInput{Frames: in, Width: 8, Height: 8, FPS: 25})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
	if !errors.Is(err, pipeline.ErrEncodeFailure) {
		t.Errorf("expected ErrEncodeFailure, got %v", err)
	}
	if mockEncoder.BeginCalled {
		t.Error("encoder should not be started for mismatched frames")
	}
}

func TestStage_Execute_EncoderFailure(t *testing.T) {
	boom := errors.New("pipe closed")
	tests := []struct {
		name    string
		encoder *mocks.VideoEncoder
	}{
		{"begin", &mocks.VideoEncoder{BeginFunc: func(int, int, float64, ports.EncoderOptions) error { return boom }}},
		{"frame", &mocks.VideoEncoder{EncodeFrameFunc: func(image.Image, int) error { return boom }}},
		{"end", &mocks.VideoEncoder{EndFunc: func() ([]byte, error) { return nil, boom }}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stage := NewStage(tt.encoder, logger.NewNoop())
			_, err := stage.Execute(context.Background(), pipeline.EncodeInput{Frames: frames(2, 4, 4, 40), Width: 4, Height: 4, FPS: 25})
			if !errors.Is(err, pipeline.ErrEncodeFailure) {
				t.Errorf("expected ErrEncodeFailure, got %v", err)
			}
			if !errors.Is(err, boom) {
				t.Errorf("expected underlying error to be kept, got %v", err)
			}
		})
	}
}

func TestStage_Execute_EmptyFrames(t *testing.T) {
	mockEncoder := &mocks.VideoEncoder{}

	stage := NewStage(mockEncoder, logger.NewNoop())

	_, err := stage.Execute(context.Background(), pipeline.EncodeInput{})
	if !errors.Is(err, ErrNoFrames) {
		t.Errorf("expected ErrNoFrames, got %v", err)
	}
}

func TestStage_Execute_ContextCancelled(t *testing.T) {
	mockEncoder := &mocks.VideoEncoder{}

	stage := NewStage(mockEncoder, logger.NewNoop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	_, err := stage.Execute(ctx, pipeline.EncodeInput{Frames: frames(2, 4, 4, 40), Width: 4, Height: 4})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
