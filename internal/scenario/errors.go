package scenario

import (
	"errors"
	"fmt"
)

// ErrFormatUnavailable is returned when a scenario file uses a format whose
// decoder is not registered in this build.
var ErrFormatUnavailable = errors.New("scenario format unavailable")

// ValidationError reports a structurally invalid scenario document.
type ValidationError struct {
	// Field is the offending field path, empty for document-level problems.
	Field string

	// Message is a human-readable description.
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid scenario: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid scenario: %s", e.Message)
}

// IsValidationError returns true if err is or wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
