package mocks

import (
	"image"
	"sync"

	"github.com/user/framefx/pkg/ports"
)

// DebugSink is a mock implementation of ports.DebugSink.
type DebugSink struct {
	mu sync.RWMutex

	enabled bool

	StreamJSON        []byte
	Record            []byte
	SourceFrames      map[int]image.Image
	TransformedFrames map[int]image.Image
	Comparisons       map[int]image.Image

	// SaveOrder records the frame index of every SaveTransformedFrame call.
	SaveOrder []int
}

// NewDebugSink creates a new mock DebugSink.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{
		enabled:           enabled,
		SourceFrames:      make(map[int]image.Image),
		TransformedFrames: make(map[int]image.Image),
		Comparisons:       make(map[int]image.Image),
	}
}

func (m *DebugSink) Enabled() bool {
	return m.enabled
}

func (m *DebugSink) SaveStreamJSON(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StreamJSON = data
	return nil
}

func (m *DebugSink) SaveSourceFrame(index int, img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SourceFrames[index] = img
	return nil
}

func (m *DebugSink) SaveTransformedFrame(index int, img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TransformedFrames[index] = img
	m.SaveOrder = append(m.SaveOrder, index)
	return nil
}

func (m *DebugSink) SaveComparison(index int, source, result image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Comparisons[index] = result
	return nil
}

func (m *DebugSink) SaveRecord(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Record = data
	return nil
}

var _ ports.DebugSink = (*DebugSink)(nil)
