package pipeline

import (
	"github.com/user/framefx/pkg/pixbuf"
	"github.com/user/framefx/pkg/ports"
)

// =============================================================================
// Decode Stage Types
// =============================================================================

// DecodeInput carries the base64 text of the input container.
type DecodeInput struct {
	Base64 string
}

// DecodeResult contains the decoded frames in decode order.
type DecodeResult struct {
	Stream    ports.StreamInfo
	Frames    []ports.VideoFrame
	InputSize int // Size of the decoded container in bytes
}

// =============================================================================
// Transform Stage Types
// =============================================================================

// TransformInput contains the frames to transform and the operation code
// applied to every one of them.
type TransformInput struct {
	Frames    []ports.VideoFrame
	Stream    ports.StreamInfo
	Operation uint8
}

// TransformResult holds the transformed frames, indexed by decode position.
type TransformResult struct {
	Frames []TransformedFrame
}

// TransformedFrame is one output frame and its position in the run.
type TransformedFrame struct {
	Index       int
	TimestampMs int
	Buffer      *pixbuf.Buffer
}

// =============================================================================
// Encode Stage Types
// =============================================================================

// EncodeInput contains the ordered frames and the geometry declared by the
// decoder.
type EncodeInput struct {
	Frames  []TransformedFrame
	Width   int
	Height  int
	FPS     float64
	Quality int // CRF: 0-63 (lower is higher quality)
	Bitrate int // Target bitrate in kbps
}

// DefaultEncodeInput returns EncodeInput with default encoder settings.
func DefaultEncodeInput() EncodeInput {
	return EncodeInput{
		FPS:     30.0,
		Quality: 23,
	}
}

// EncodeResult contains the encoded video.
type EncodeResult struct {
	VideoData  []byte
	FrameCount int
	DurationMs int
	FileSize   int64
}
