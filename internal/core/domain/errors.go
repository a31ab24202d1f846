package domain

import "errors"

var (
	// ErrUnauthenticated means the operation requires a session and none was presented.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden means the caller is authenticated but lacks the role or ownership.
	ErrForbidden = errors.New("access forbidden")
	// ErrValidation is the parent of every *ValidationError.
	ErrValidation = errors.New("validation failed")
)

// ValidationError reports a rejected input field. It matches ErrValidation
// under errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }
