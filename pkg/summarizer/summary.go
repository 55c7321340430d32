// Package summarizer provides summary generation for transform runs.
package summarizer

import "time"

// Summary contains all data collected during one run.
type Summary struct {
	// Metadata
	GeneratedAt time.Time
	RunID       string

	// Operation applied to every frame
	Operation OperationInfo

	// Decoded input
	Input StreamInfo

	// Encoded output
	Output VideoInfo

	// Public record
	Record RecordInfo

	// Run settings
	Settings Settings
}

// OperationInfo names the transform of a run.
type OperationInfo struct {
	Code uint8
	Name string
}

// StreamInfo describes the decoded input stream.
type StreamInfo struct {
	Codec      string
	Width      int
	Height     int
	FPS        float64
	FrameCount int
	InputSize  int // decoded container bytes
}

// VideoInfo contains information about the output video.
type VideoInfo struct {
	Codec      string
	FrameCount int
	DurationMs int
	FileSize   int64
}

// RecordInfo describes the encoded public record.
type RecordInfo struct {
	Size       int
	Digest     string
	OutputSize int // length of the base64 text
}

// Settings contains the run configuration.
type Settings struct {
	Workers int
	Quality int
	Bitrate int
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithRunID sets the run identifier.
func (b *Builder) WithRunID(id string) *Builder {
	b.summary.RunID = id
	return b
}

// WithOperation sets the operation code and its name.
func (b *Builder) WithOperation(code uint8, name string) *Builder {
	b.summary.Operation = OperationInfo{Code: code, Name: name}
	return b
}

// WithInput sets decoded stream information.
func (b *Builder) WithInput(input StreamInfo) *Builder {
	b.summary.Input = input
	return b
}

// WithOutput sets video output information.
func (b *Builder) WithOutput(output VideoInfo) *Builder {
	b.summary.Output = output
	return b
}

// WithRecord sets public record information.
func (b *Builder) WithRecord(size int, digest string, outputSize int) *Builder {
	b.summary.Record = RecordInfo{
		Size:       size,
		Digest:     digest,
		OutputSize: outputSize,
	}
	return b
}

// WithSettings sets run settings.
func (b *Builder) WithSettings(settings Settings) *Builder {
	b.summary.Settings = settings
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
