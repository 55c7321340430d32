package ffmpegcodec

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/user/framefx/pkg/adapters/codecdetect"
	"github.com/user/framefx/pkg/ports"
)

// Decoder implements ports.VideoDecoder by asking ffmpeg for every frame as
// raw RGBA on stdout.
type Decoder struct {
	customPath string
}

// NewDecoder creates a new ffmpeg decoder. ffmpegPath may be empty to search
// the usual locations.
func NewDecoder(ffmpegPath string) *Decoder {
	return &Decoder{customPath: ffmpegPath}
}

func decodeArgs(input string) []string {
	return []string{
		"-v", "error",
		"-i", input,
		"-map", "0:v:0",
		"-vsync", "passthrough",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"pipe:1",
	}
}

// ReadStream decodes every frame of the container read from reader. Frame
// geometry comes from the MP4 boxes or, for other containers, from ffprobe;
// the raw output is split on frame boundaries.
func (d *Decoder) ReadStream(ctx context.Context, reader io.ReadSeeker) (*ports.DecodedStream, error) {
	ffmpegPath, err := FindFFmpeg(d.customPath)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	// ffmpeg needs a seekable input for MP4 with a trailing moov.
	inputFile, err := os.CreateTemp("", "framefx_decode_*")
	if err != nil {
		return nil, fmt.Errorf("create input temp file: %w", err)
	}
	inputPath := inputFile.Name()
	defer os.Remove(inputPath)

	if _, err := inputFile.Write(data); err != nil {
		inputFile.Close()
		return nil, fmt.Errorf("write input: %w", err)
	}
	inputFile.Close()

	// MP4 geometry is read in process; other containers ask ffprobe.
	probe, err := codecdetect.ProbeBytes(data)
	if err != nil || probe.Width <= 0 || probe.Height <= 0 {
		probe, err = probeFile(ctx, ffmpegPath, inputPath)
		if err != nil {
			return nil, err
		}
	}
	if probe.Width <= 0 || probe.Height <= 0 {
		return nil, fmt.Errorf("container declares no frame size")
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, ffmpegPath, decodeArgs(inputPath)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("ffmpeg decode failed: %w\nstderr: %s", err, stderr.String())
	}

	frames, err := splitFrames(stdout.Bytes(), probe.Width, probe.Height, probe.FPS)
	if err != nil {
		return nil, err
	}

	return &ports.DecodedStream{
		Info: ports.StreamInfo{
			Codec:  string(probe.Codec),
			Width:  probe.Width,
			Height: probe.Height,
			FPS:    probe.FPS,
		},
		Frames: frames,
	}, nil
}

// splitFrames cuts tightly packed RGBA output into frames. Timestamps follow
// the nominal frame rate.
func splitFrames(data []byte, width, height int, fps float64) ([]ports.VideoFrame, error) {
	frameSize := width * height * 4
	if len(data)%frameSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrTruncatedFrame, len(data), frameSize)
	}

	durationMs := 0
	if fps > 0 {
		durationMs = int(1000/fps + 0.5)
	}

	n := len(data) / frameSize
	frames := make([]ports.VideoFrame, n)
	for i := range frames {
		ts := 0
		if fps > 0 {
			ts = int(float64(i)*1000/fps + 0.5)
		}
		frames[i] = ports.VideoFrame{
			Width:       width,
			Height:      height,
			Pix:         data[i*frameSize : (i+1)*frameSize : (i+1)*frameSize],
			TimestampMs: ts,
			Duration:    durationMs,
		}
	}
	return frames, nil
}

// Close releases decoder resources.
func (d *Decoder) Close() {}

var _ ports.VideoDecoder = (*Decoder)(nil)
