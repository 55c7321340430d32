// Package decode implements the input decoding stage.
package decode

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/user/framefx/pkg/pipeline"
	"github.com/user/framefx/pkg/ports"
)

var (
	// ErrInvalidBase64 is returned when the input text is not standard base64.
	ErrInvalidBase64 = fmt.Errorf("%w: invalid base64 input", pipeline.ErrDecodeFailure)

	// ErrEmptyInput is returned when the input decodes to zero bytes.
	ErrEmptyInput = fmt.Errorf("%w: empty input", pipeline.ErrDecodeFailure)

	// ErrNoFrames is returned when the container holds no video frames.
	ErrNoFrames = fmt.Errorf("%w: no frames decoded", pipeline.ErrDecodeFailure)

	// ErrNoStreamGeometry is returned when the decoder reports no frame size.
	ErrNoStreamGeometry = fmt.Errorf("%w: stream declares no frame size", pipeline.ErrDecodeFailure)
)

// Stage turns base64 text into ordered decoded frames.
type Stage struct {
	decoder ports.VideoDecoder
	logger  ports.Logger
}

// NewStage creates a new decode stage.
func NewStage(decoder ports.VideoDecoder, logger ports.Logger) *Stage {
	return &Stage{
		decoder: decoder,
		logger:  logger.WithComponent("decode"),
	}
}

// Execute decodes the base64 input and every frame of the container it holds.
func (s *Stage) Execute(ctx context.Context, input pipeline.DecodeInput) (pipeline.DecodeResult, error) {
	data, err := DecodeBase64(input.Base64)
	if err != nil {
		return pipeline.DecodeResult{}, err
	}

	s.logger.Debug("Decoding %d bytes of input", len(data))

	stream, err := s.decoder.ReadStream(ctx, bytes.NewReader(data))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return pipeline.DecodeResult{}, ctxErr
		}
		return pipeline.DecodeResult{}, fmt.Errorf("%w: %w", pipeline.ErrDecodeFailure, err)
	}
	if stream == nil || len(stream.Frames) == 0 {
		return pipeline.DecodeResult{}, ErrNoFrames
	}

	info := stream.Info
	if info.Width <= 0 || info.Height <= 0 {
		// Fall back to the first frame's size when the container is silent.
		first := stream.Frames[0]
		info.Width, info.Height = first.Width, first.Height
		if first.Image != nil {
			b := first.Image.Bounds()
			info.Width, info.Height = b.Dx(), b.Dy()
		}
		if info.Width <= 0 || info.Height <= 0 {
			return pipeline.DecodeResult{}, ErrNoStreamGeometry
		}
	}

	s.logger.Debug("Decoded %d frames (%dx%d, %s, %.2f fps)",
		len(stream.Frames), info.Width, info.Height, info.Codec, info.FPS)

	return pipeline.DecodeResult{
		Stream:    info,
		Frames:    stream.Frames,
		InputSize: len(data),
	}, nil
}

// DecodeBase64 decodes padded standard base64, ignoring embedded whitespace
// such as line wrapping.
func DecodeBase64(text string) ([]byte, error) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)

	data, err := base64.StdEncoding.DecodeString(cleaned)
	if err != nil {
		var corrupt base64.CorruptInputError
		if errors.As(err, &corrupt) {
			return nil, fmt.Errorf("%w at byte %d", ErrInvalidBase64, int64(corrupt))
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidBase64, err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}
	return data, nil
}
