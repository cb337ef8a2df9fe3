package schema

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownInstrument reports a stack lookup that matched nothing in
	// the document.
	ErrUnknownInstrument = errors.New("unknown instrument")

	// ErrUnknownDetector reports a detector lookup that matched nothing.
	ErrUnknownDetector = errors.New("unknown detector")
)

// ValidationError represents a single field validation failure.
type ValidationError struct {
	Key    string // Field path, e.g. "Positioners/sample[2].axis"
	Reason string // Human-readable reason for failure
	Value  any    // The value that failed validation
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("field %q: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("field %q: %s (got %v)", e.Key, e.Reason, e.Value)
}

// AggregateError collects every validation failure in a document so callers
// see all problems at once.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

func (e *AggregateError) Unwrap() []error { return e.Errors }

// ValidationErrors returns all collected errors if err is an AggregateError,
// otherwise nil.
func ValidationErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return nil
}
