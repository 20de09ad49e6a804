package model

import (
	"errors"
	"fmt"
)

// ErrNotFound is matched by every NotFoundError.
var ErrNotFound = errors.New("not found")

// ValidationError reports a missing or malformed field.
type ValidationError struct {
	Field  string // Field name as it appears in the stored document
	Reason string // Human-readable reason
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError creates a new validation error
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// TransportError wraps a failed backend call.
type TransportError struct {
	Op  string // Backend operation, e.g. "create task"
	Err error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying backend error
func (e *TransportError) Unwrap() error {
	return e.Err
}

// NotFoundError reports an id unknown to the backend.
type NotFoundError struct {
	Resource string // "task" or "category"
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// Is makes errors.Is(err, ErrNotFound) true for any NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Transport wraps err as a TransportError for op. Nil stays nil, and errors
// that already belong to the taxonomy are returned unchanged so a backend can
// surface NotFound and validation failures as they are.
func Transport(op string, err error) error {
	if err == nil {
		return nil
	}
	var (
		te *TransportError
		ve *ValidationError
		ne *NotFoundError
	)
	if errors.As(err, &te) || errors.As(err, &ve) || errors.As(err, &ne) {
		return err
	}
	return &TransportError{Op: op, Err: err}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsTransport reports whether err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
