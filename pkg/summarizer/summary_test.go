package summarizer

import (
	"testing"
	"time"
)

func TestNewSummary(t *testing.T) {
	before := time.Now()
	summary := NewSummary()
	after := time.Now()

	if summary.GeneratedAt.Before(before) || summary.GeneratedAt.After(after) {
		t.Errorf("GeneratedAt should be between %v and %v, got %v",
			before, after, summary.GeneratedAt)
	}
}

func TestBuilder_WithOperation(t *testing.T) {
	summary := NewBuilder().
		WithRunID("run-1").
		WithOperation(4, "shake").
		Build()

	if summary.RunID != "run-1" {
		t.Errorf("expected run ID 'run-1', got '%s'", summary.RunID)
	}
	if summary.Operation.Code != 4 || summary.Operation.Name != "shake" {
		t.Errorf("unexpected operation %+v", summary.Operation)
	}
}

func TestBuilder_WithInputAndOutput(t *testing.T) {
	summary := NewBuilder().
		WithInput(StreamInfo{Codec: "raw", Width: 64, Height: 48, FPS: 30, FrameCount: 10, InputSize: 2048}).
		WithOutput(VideoInfo{Codec: "raw", FrameCount: 10, DurationMs: 334, FileSize: 4096}).
		Build()

	if summary.Input.Width != 64 || summary.Input.Height != 48 {
		t.Errorf("expected 64x48 input, got %dx%d", summary.Input.Width, summary.Input.Height)
	}
	if summary.Output.FrameCount != 10 {
		t.Errorf("expected 10 output frames, got %d", summary.Output.FrameCount)
	}
	if summary.Output.FileSize != 4096 {
		t.Errorf("expected file size 4096, got %d", summary.Output.FileSize)
	}
}

func TestBuilder_WithRecord(t *testing.T) {
	summary := NewBuilder().
		WithRecord(160, "0xabc", 8).
		Build()

	if summary.Record.Size != 160 {
		t.Errorf("expected record size 160, got %d", summary.Record.Size)
	}
	if summary.Record.Digest != "0xabc" {
		t.Errorf("expected digest '0xabc', got '%s'", summary.Record.Digest)
	}
	if summary.Record.OutputSize != 8 {
		t.Errorf("expected output size 8, got %d", summary.Record.OutputSize)
	}
}

func TestBuilder_WithSettings(t *testing.T) {
	summary := NewBuilder().
		WithSettings(Settings{Workers: 4, Quality: 23, Bitrate: 1500}).
		Build()

	if summary.Settings.Workers != 4 {
		t.Errorf("expected 4 workers, got %d", summary.Settings.Workers)
	}
	if summary.Settings.Bitrate != 1500 {
		t.Errorf("expected bitrate 1500, got %d", summary.Settings.Bitrate)
	}
}

func TestFormatFunc(t *testing.T) {
	f := FormatFunc(func(s *Summary) string { return s.RunID })
	if got := f.Format(&Summary{RunID: "abc"}); got != "abc" {
		t.Errorf("expected 'abc', got %q", got)
	}
}
