package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers both a missing row and a row owned by someone else.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a delete would break a reference, e.g. a
	// status that still holds applications.
	ErrConflict = errors.New("conflict")
)

// ValidationError reports a missing or malformed request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Invalid builds a *ValidationError for field.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ConflictError wraps ErrConflict with a message meant for the client.
func ConflictError(msg string) error {
	return fmt.Errorf("%w: %s", ErrConflict, msg)
}
