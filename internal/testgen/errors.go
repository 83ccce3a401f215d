package testgen

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidInput marks requests that are missing required fields.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInput reports a malformed request.
func InvalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// GenerationError wraps a failure of the completion service. Error returns
// the underlying message unchanged.
type GenerationError struct {
	Err error

	// Timeout is set when the request deadline expired before the
	// completion service answered.
	Timeout time.Duration
}

func (e *GenerationError) Error() string {
	if e.IsTimeout() {
		return fmt.Sprintf("generation timed out after %s", e.Timeout)
	}
	return e.Err.Error()
}

func (e *GenerationError) Unwrap() error { return e.Err }

// IsTimeout reports whether the failure was a deadline expiry.
func (e *GenerationError) IsTimeout() bool { return e.Timeout > 0 }
