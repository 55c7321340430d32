// Package juxtapose combines two videos side by side, typically a run's
// input and its transformed output.
package juxtapose

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/user/framefx/pkg/pixbuf"
	"github.com/user/framefx/pkg/ports"
	"golang.org/x/image/draw"
)

// ErrNoFrames is returned when either side decodes to zero frames.
var ErrNoFrames = errors.New("juxtapose: video has no frames")

// Options configures the juxtapose operation.
type Options struct {
	// Gap is the horizontal gap between the two videos in pixels.
	Gap int
	// FPS is the output frame rate. 0 uses the left video's rate.
	FPS float64
	// Quality is the encoding quality (CRF, lower is better).
	Quality int
	// Bitrate is the target bitrate in kbps (0 = auto).
	Bitrate int
	// Background fills the gap and any letterbox area.
	Background color.Color
}

// DefaultOptions returns default options.
func DefaultOptions() Options {
	return Options{
		Gap:        10,
		Quality:    23,
		Background: color.Black,
	}
}

// Input names the two source videos and the output path.
type Input struct {
	LeftPath   string
	RightPath  string
	OutputPath string
}

// Result describes the combined video.
type Result struct {
	Width      int
	Height     int
	FrameCount int
	DurationMs int
	FileSize   int64
}

// Stage combines two videos with injected codec and filesystem adapters.
type Stage struct {
	decoder ports.VideoDecoder
	encoder ports.VideoEncoder
	fs      ports.FileSystem
	logger  ports.Logger
	opts    Options
}

// New creates a new juxtapose Stage.
func New(decoder ports.VideoDecoder, encoder ports.VideoEncoder, fs ports.FileSystem, logger ports.Logger, opts Options) *Stage {
	return &Stage{
		decoder: decoder,
		encoder: encoder,
		fs:      fs,
		logger:  logger.WithComponent("juxtapose"),
		opts:    opts,
	}
}

// Execute decodes both videos, composes them frame by frame and writes the
// encoded result. The shorter video holds its last frame until the longer
// one finishes.
func (s *Stage) Execute(ctx context.Context, input Input) (Result, error) {
	left, err := s.readFrames(ctx, input.LeftPath)
	if err != nil {
		return Result{}, fmt.Errorf("read left video: %w", err)
	}
	right, err := s.readFrames(ctx, input.RightPath)
	if err != nil {
		return Result{}, fmt.Errorf("read right video: %w", err)
	}

	data, result, err := s.Compose(ctx, left, right)
	if err != nil {
		return Result{}, err
	}

	if err := s.fs.WriteFile(input.OutputPath, data); err != nil {
		return Result{}, fmt.Errorf("write output: %w", err)
	}
	s.logger.Info("Video saved to %s", input.OutputPath)

	return result, nil
}

// Compose encodes the side-by-side video of two decoded streams.
func (s *Stage) Compose(ctx context.Context, left, right *ports.DecodedStream) ([]byte, Result, error) {
	if left == nil || len(left.Frames) == 0 || right == nil || len(right.Frames) == 0 {
		return nil, Result{}, ErrNoFrames
	}

	leftImgs, err := frameImages(left.Frames)
	if err != nil {
		return nil, Result{}, fmt.Errorf("left video: %w", err)
	}
	rightImgs, err := frameImages(right.Frames)
	if err != nil {
		return nil, Result{}, fmt.Errorf("right video: %w", err)
	}

	lb, rb := leftImgs[0].Bounds(), rightImgs[0].Bounds()
	width := lb.Dx() + s.opts.Gap + rb.Dx()
	height := max(lb.Dy(), rb.Dy())

	fps := s.opts.FPS
	if fps <= 0 {
		fps = left.Info.FPS
	}
	if fps <= 0 {
		fps = 30
	}

	totalDuration := max(endMs(left.Frames, fps), endMs(right.Frames, fps))

	if err := s.encoder.Begin(width, height, fps, ports.EncoderOptions{
		Quality: s.opts.Quality,
		Bitrate: s.opts.Bitrate,
	}); err != nil {
		return nil, Result{}, fmt.Errorf("init encoder: %w", err)
	}

	bg := s.opts.Background
	if bg == nil {
		bg = color.Black
	}

	frameCount := 0
	for i := 0; ; i++ {
		timestampMs := int(float64(i) * 1000 / fps)
		if timestampMs >= totalDuration {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, Result{}, err
		}

		output := image.NewNRGBA(image.Rect(0, 0, width, height))
		draw.Draw(output, output.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

		leftImg := leftImgs[frameIndexAt(left.Frames, timestampMs)]
		leftY := (height - lb.Dy()) / 2
		draw.Draw(output, image.Rect(0, leftY, lb.Dx(), leftY+lb.Dy()), leftImg, leftImg.Bounds().Min, draw.Src)

		rightImg := rightImgs[frameIndexAt(right.Frames, timestampMs)]
		rightX := lb.Dx() + s.opts.Gap
		rightY := (height - rb.Dy()) / 2
		draw.Draw(output, image.Rect(rightX, rightY, rightX+rb.Dx(), rightY+rb.Dy()), rightImg, rightImg.Bounds().Min, draw.Src)

		if err := s.encoder.EncodeFrame(output, timestampMs); err != nil {
			return nil, Result{}, fmt.Errorf("encode frame at %dms: %w", timestampMs, err)
		}
		frameCount++
	}

	data, err := s.encoder.End()
	if err != nil {
		return nil, Result{}, fmt.Errorf("end encoding: %w", err)
	}

	return data, Result{
		Width:      width,
		Height:     height,
		FrameCount: frameCount,
		DurationMs: totalDuration,
		FileSize:   int64(len(data)),
	}, nil
}

func (s *Stage) readFrames(ctx context.Context, path string) (*ports.DecodedStream, error) {
	data, err := s.fs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	stream, err := s.decoder.ReadStream(ctx, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if len(stream.Frames) == 0 {
		return nil, ErrNoFrames
	}
	return stream, nil
}

func frameImages(frames []ports.VideoFrame) ([]image.Image, error) {
	imgs := make([]image.Image, len(frames))
	for i, f := range frames {
		if f.Image != nil {
			imgs[i] = f.Image
			continue
		}
		buf, err := pixbuf.FromRGBA(f.Width, f.Height, f.Pix)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		imgs[i] = buf.Image()
	}
	return imgs, nil
}

// endMs returns the end time of the last frame, assuming one frame period
// when the decoder reports no duration.
func endMs(frames []ports.VideoFrame, fps float64) int {
	last := frames[len(frames)-1]
	d := last.Duration
	if d <= 0 {
		d = int(1000/fps + 0.5)
	}
	return last.TimestampMs + d
}

// frameIndexAt returns the index of the frame shown at timestampMs. Past
// the end the last frame is held; before the start the first is used.
func frameIndexAt(frames []ports.VideoFrame, timestampMs int) int {
	for i := len(frames) - 1; i >= 0; i-- {
		if frames[i].TimestampMs <= timestampMs {
			return i
		}
	}
	return 0
}
