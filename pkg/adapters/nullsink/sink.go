// Package nullsink provides a no-op debug sink implementation.
package nullsink

import (
	"image"

	"github.com/user/framefx/pkg/ports"
)

// Sink is a no-op implementation of ports.DebugSink.
// It discards all debug output.
type Sink struct{}

// New creates a new NullSink.
func New() *Sink {
	return &Sink{}
}

// Enabled returns false as this sink discards all output.
func (s *Sink) Enabled() bool {
	return false
}

// SaveStreamJSON does nothing.
func (s *Sink) SaveStreamJSON(data []byte) error {
	return nil
}

// SaveSourceFrame does nothing.
func (s *Sink) SaveSourceFrame(index int, img image.Image) error {
	return nil
}

// SaveTransformedFrame does nothing.
func (s *Sink) SaveTransformedFrame(index int, img image.Image) error {
	return nil
}

// SaveComparison does nothing.
func (s *Sink) SaveComparison(index int, source, result image.Image) error {
	return nil
}

// SaveRecord does nothing.
func (s *Sink) SaveRecord(data []byte) error {
	return nil
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
