package ports

import (
	"image"
)

// DebugSink abstracts debug output for intermediate results of a run.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SaveStreamJSON saves the decoded stream description as JSON.
	SaveStreamJSON(data []byte) error

	// SaveSourceFrame saves a decoded frame before its transform.
	SaveSourceFrame(index int, img image.Image) error

	// SaveTransformedFrame saves a frame after its transform.
	SaveTransformedFrame(index int, img image.Image) error

	// SaveComparison saves a side-by-side sheet of a source and result frame.
	SaveComparison(index int, source, result image.Image) error

	// SaveRecord saves the encoded public record.
	SaveRecord(data []byte) error
}
