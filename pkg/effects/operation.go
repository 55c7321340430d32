package effects

import (
	"fmt"
	"strings"

	"github.com/user/framefx/pkg/pipeline"
	"github.com/user/framefx/pkg/pixbuf"
)

// Operation selects the transform applied to every frame of a run.
type Operation uint8

// Operation codes accepted on the wire.
const (
	OpBrightness     Operation = 1
	OpFlipHorizontal Operation = 2
	OpFlipVertical   Operation = 3
	OpShake          Operation = 4
	OpDeformedMirror Operation = 5
)

// ErrInvalidOperation is returned for codes outside 1..5.
var ErrInvalidOperation = fmt.Errorf("effects: %w", pipeline.ErrInvalidOperationCode)

var operationNames = map[Operation]string{
	OpBrightness:     "brightness",
	OpFlipHorizontal: "flip-horizontal",
	OpFlipVertical:   "flip-vertical",
	OpShake:          "shake",
	OpDeformedMirror: "deformed-mirror",
}

// Operations returns every valid operation in code order.
func Operations() []Operation {
	return []Operation{OpBrightness, OpFlipHorizontal, OpFlipVertical, OpShake, OpDeformedMirror}
}

// ParseOperation validates a wire operation code.
func ParseOperation(code uint8) (Operation, error) {
	op := Operation(code)
	if _, ok := operationNames[op]; !ok {
		return 0, fmt.Errorf("%w: %d", ErrInvalidOperation, code)
	}
	return op, nil
}

// ParseOperationName accepts either an operation name ("shake") or its
// decimal code ("4").
func ParseOperationName(s string) (Operation, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for op, name := range operationNames {
		if name == s {
			return op, nil
		}
	}
	var code uint8
	if _, err := fmt.Sscanf(s, "%d", &code); err == nil && fmt.Sprint(code) == s {
		return ParseOperation(code)
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidOperation, s)
}

// Valid reports whether op is one of the five known codes.
func (op Operation) Valid() bool {
	_, ok := operationNames[op]
	return ok
}

// String returns the operation name, or "operation(N)" for unknown codes.
func (op Operation) String() string {
	if name, ok := operationNames[op]; ok {
		return name
	}
	return fmt.Sprintf("operation(%d)", uint8(op))
}

// Effect returns the Effect implementing op.
func (op Operation) Effect() (Effect, error) {
	switch op {
	case OpBrightness:
		return BrightnessEffect{Factor: DefaultBrightness}, nil
	case OpFlipHorizontal:
		return FlipHorizontalEffect{}, nil
	case OpFlipVertical:
		return FlipVerticalEffect{}, nil
	case OpShake:
		return ShakeEffect{}, nil
	case OpDeformedMirror:
		return DeformedMirrorEffect{}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidOperation, uint8(op))
	}
}

// Apply runs the transform selected by op on buf. Unknown codes fail; a frame
// is never returned unmodified in their place.
func (op Operation) Apply(buf *pixbuf.Buffer, frameIndex uint64) (*pixbuf.Buffer, error) {
	switch op {
	case OpBrightness:
		return Brightness(buf, DefaultBrightness), nil
	case OpFlipHorizontal:
		return FlipHorizontal(buf), nil
	case OpFlipVertical:
		return FlipVertical(buf), nil
	case OpShake:
		return Shake(buf, frameIndex), nil
	case OpDeformedMirror:
		return DeformedMirror(buf), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidOperation, uint8(op))
	}
}
