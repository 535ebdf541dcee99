package models

import "errors"

// Validation errors shared across packages. Callers test with errors.Is;
// producers wrap with fmt.Errorf("%w: ...") to add the failing operation.
var (
	// ErrInvalidArgument reports a bad parameter (k, top_n, empty query).
	// Always returned before any state mutation.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrEmptyInput reports a blank conversational turn.
	ErrEmptyInput = errors.New("empty input")
)
