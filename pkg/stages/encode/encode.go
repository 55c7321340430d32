// Package encode implements the video encoding stage.
package encode

import (
	"context"
	"fmt"

	"github.com/user/framefx/pkg/pipeline"
	"github.com/user/framefx/pkg/ports"
)

var (
	// ErrNoFrames is returned when there is nothing to encode.
	ErrNoFrames = fmt.Errorf("%w: no frames to encode", pipeline.ErrEncodeFailure)

	// ErrDimensionMismatch is returned when a transformed frame does not
	// match the declared output size.
	ErrDimensionMismatch = fmt.Errorf("%w: frame dimension mismatch", pipeline.ErrEncodeFailure)
)

// Stage encodes transformed frames into the output container.
type Stage struct {
	encoder ports.VideoEncoder
	logger  ports.Logger
}

// NewStage creates a new encode stage.
func NewStage(encoder ports.VideoEncoder, logger ports.Logger) *Stage {
	return &Stage{
		encoder: encoder,
		logger:  logger.WithComponent("encode"),
	}
}

// Execute encodes all frames into a video, in order.
func (s *Stage) Execute(ctx context.Context, input pipeline.EncodeInput) (pipeline.EncodeResult, error) {
	result := pipeline.EncodeResult{}

	if len(input.Frames) == 0 {
		return result, ErrNoFrames
	}

	width, height := input.Width, input.Height
	if width == 0 && height == 0 {
		width, height = input.Frames[0].Buffer.Width(), input.Frames[0].Buffer.Height()
	}

	// Every frame is checked before the encoder sees any of them.
	for i, frame := range input.Frames {
		if frame.Buffer == nil {
			return result, fmt.Errorf("%w: frame %d is missing", ErrDimensionMismatch, i)
		}
		if frame.Buffer.Width() != width || frame.Buffer.Height() != height {
			return result, fmt.Errorf("%w: frame %d is %dx%d, output is %dx%d",
				ErrDimensionMismatch, i, frame.Buffer.Width(), frame.Buffer.Height(), width, height)
		}
	}

	fps := input.FPS
	if fps <= 0 {
		fps = pipeline.DefaultEncodeInput().FPS
	}

	opts := ports.EncoderOptions{
		Bitrate: input.Bitrate,
		Quality: input.Quality,
	}

	s.logger.Debug("Encoding %d frames at %.1f fps", len(input.Frames), fps)

	if err := s.encoder.Begin(width, height, fps, opts); err != nil {
		return result, fmt.Errorf("%w: begin encoding: %w", pipeline.ErrEncodeFailure, err)
	}

	for i, frame := range input.Frames {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if err := s.encoder.EncodeFrame(frame.Buffer.Image(), frame.TimestampMs); err != nil {
			return result, fmt.Errorf("%w: encode frame %d at %dms: %w", pipeline.ErrEncodeFailure, i, frame.TimestampMs, err)
		}
	}

	data, err := s.encoder.End()
	if err != nil {
		return result, fmt.Errorf("%w: end encoding: %w", pipeline.ErrEncodeFailure, err)
	}

	s.logger.Debug("Video encoded: %d bytes", len(data))

	last := input.Frames[len(input.Frames)-1]
	result.VideoData = data
	result.FrameCount = len(input.Frames)
	result.DurationMs = last.TimestampMs + int(1000/fps+0.5)
	result.FileSize = int64(len(data))

	return result, nil
}
