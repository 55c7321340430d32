package pipeline

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by a run. Every failure aborts the whole run; callers
// classify it with errors.Is against one of these.
var (
	// ErrDecodeFailure reports a malformed or unsupported input bitstream.
	ErrDecodeFailure = errors.New("decode failure")

	// ErrInvalidOperationCode reports an operation code outside 1..5.
	ErrInvalidOperationCode = errors.New("invalid operation code")

	// ErrFrameExtraction reports a decoded frame that is not a consistent
	// RGBA buffer of its declared dimensions.
	ErrFrameExtraction = errors.New("frame extraction failure")

	// ErrEncodeFailure reports a failure while reassembling the output stream.
	ErrEncodeFailure = errors.New("encode failure")
)

var kinds = []error{
	ErrInvalidOperationCode,
	ErrDecodeFailure,
	ErrFrameExtraction,
	ErrEncodeFailure,
}

// Kind returns the error kind name carried by err, or "" when err is nil or
// does not carry one of the pipeline kinds.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k.Error()
		}
	}
	return ""
}

// WithKind attaches kind to err unless err already carries a pipeline kind.
func WithKind(kind, err error) error {
	if err == nil {
		return nil
	}
	if Kind(err) != "" {
		return err
	}
	return fmt.Errorf("%w: %w", kind, err)
}
