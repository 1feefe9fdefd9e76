package entropy

import "fmt"

// ValidationError reports malformed input: bad shape, non-positive radius,
// non-finite tolerance. The transform is deterministic, so retrying with the
// same input is never useful.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid input: " + e.Reason
}

func validationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// ComputationError reports a failure during array processing after the input
// passed validation (e.g. a plane whose length no longer matches the image
// dimensions).
type ComputationError struct {
	Stage string
	Err   error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("computation failed (%s): %v", e.Stage, e.Err)
}

func (e *ComputationError) Unwrap() error {
	return e.Err
}
