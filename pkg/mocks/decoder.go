// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"
	"io"

	"github.com/user/framefx/pkg/ports"
)

// VideoDecoder is a mock implementation of ports.VideoDecoder.
type VideoDecoder struct {
	ReadStreamFunc func(ctx context.Context, reader io.ReadSeeker) (*ports.DecodedStream, error)

	// Stream is returned by ReadStream when ReadStreamFunc is nil.
	Stream *ports.DecodedStream

	// Recorded calls for verification
	ReadStreamCalls int
	ReadData        []byte
	Closed          bool
}

func (m *VideoDecoder) ReadStream(ctx context.Context, reader io.ReadSeeker) (*ports.DecodedStream, error) {
	m.ReadStreamCalls++
	if m.ReadStreamFunc != nil {
		return m.ReadStreamFunc(ctx, reader)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	m.ReadData = data
	if m.Stream != nil {
		return m.Stream, nil
	}
	return &ports.DecodedStream{}, nil
}

func (m *VideoDecoder) Close() {
	m.Closed = true
}

var _ ports.VideoDecoder = (*VideoDecoder)(nil)
