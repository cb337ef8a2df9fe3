package positioner

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownKind reports an axis kind outside the closed variant set.
	ErrUnknownKind = errors.New("unknown axis kind")

	// ErrScaleDirection reports a scale axis whose direction does not select
	// exactly one lab axis.
	ErrScaleDirection = errors.New("scale direction must select exactly one lab axis")

	// ErrMissingMotorValue reports an axis with neither a runtime value nor
	// a configured default.
	ErrMissingMotorValue = errors.New("missing motor value")

	// ErrMissingMatrix reports a literal-matrix axis without a matrix.
	ErrMissingMatrix = errors.New("positioner axis has no matrix")
)

// AxisError ties a failure to the axis that caused it.
type AxisError struct {
	Axis string
	Err  error
}

func (e *AxisError) Error() string {
	return fmt.Sprintf("axis %q: %v", e.Axis, e.Err)
}

func (e *AxisError) Unwrap() error { return e.Err }
