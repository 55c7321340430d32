// Package ports defines interfaces for the collaborators a framefx run
// depends on: codecs, filesystem, logging and debug output.
package ports

import (
	"context"
	"image"
	"io"
)

// StreamInfo is the geometry and timing a container declares for its video
// track. Every decoded frame must match Width x Height.
type StreamInfo struct {
	Codec  string  `json:"codec"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	FPS    float64 `json:"fps"`
}

// VideoFrame is one decoded frame in decode order.
//
// Decoders that produce raw bytes fill Pix with tightly packed RGBA samples
// (4 bytes per pixel, rows top to bottom). Decoders that produce images set
// Image instead; the pipeline normalizes it to RGBA.
type VideoFrame struct {
	Width       int
	Height      int
	Pix         []byte
	Image       image.Image
	TimestampMs int
	Duration    int // Duration in milliseconds
}

// DecodedStream is the full output of a decode call.
type DecodedStream struct {
	Info   StreamInfo
	Frames []VideoFrame
}

// VideoDecoder abstracts the external decode collaborator.
type VideoDecoder interface {
	// ReadStream decodes every frame of the container read from reader.
	ReadStream(ctx context.Context, reader io.ReadSeeker) (*DecodedStream, error)

	// Close releases decoder resources.
	Close()
}
