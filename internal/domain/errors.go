// Package domain provides shared domain-level error types for the client.
package domain

import (
	"errors"
	"fmt"
)

// ErrSessionExpired indicates the backend rejected the bearer token and the
// session has been evicted.
var ErrSessionExpired = errors.New("session expired")

// ErrNoProject indicates an operation that requires an open project was
// called without one.
var ErrNoProject = errors.New("no open project")

// ValidationError reports malformed local input. It is raised before any
// network call is attempted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Invalid constructs a ValidationError for the given field.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// RequestError reports a non-2xx response or a transport failure from the
// backend. Status is zero when the request never produced a response.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("request failed: %s", e.Message)
	}
	return fmt.Sprintf("backend error %d: %s", e.Status, e.Message)
}

// Unwrap exposes ErrSessionExpired for unauthorized responses so callers can
// match with errors.Is.
func (e *RequestError) Unwrap() error {
	if e.Status == 401 {
		return ErrSessionExpired
	}
	return nil
}
