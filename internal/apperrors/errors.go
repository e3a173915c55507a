package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound represents an error when a requested resource is not found.
type ErrNotFound struct {
	Resource string
	ID       interface{}
}

// Error implements the error interface.
func (e *ErrNotFound) Error() string {
	if e.ID != nil {
		return fmt.Sprintf("%s with ID %v not found", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is allows for error checking with errors.Is().
func (e *ErrNotFound) Is(target error) bool {
	_, ok := target.(*ErrNotFound)
	return ok
}

// NewNotFoundError creates a new ErrNotFound.
func NewNotFoundError(resource string, id interface{}) *ErrNotFound {
	return &ErrNotFound{
		Resource: resource,
		ID:       id,
	}
}

// ErrMalformedRecord is returned when a caption record lacks a required field.
type ErrMalformedRecord struct {
	Field string // Name of the missing field: "locale", "type" or "source"
	Index int    // 0-based position of the record in its input list
}

// Error implements the error interface.
func (e *ErrMalformedRecord) Error() string {
	return fmt.Sprintf("malformed caption record at position %d: missing %s", e.Index, e.Field)
}

// Is allows for error checking with errors.Is().
func (e *ErrMalformedRecord) Is(target error) bool {
	_, ok := target.(*ErrMalformedRecord)
	return ok
}

// ErrNetwork is a transient failure talking to the platform. It is retryable.
type ErrNetwork struct {
	URL string
	Err error
}

// Error implements the error interface.
func (e *ErrNetwork) Error() string {
	return fmt.Sprintf("network error for %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ErrNetwork) Unwrap() error {
	return e.Err
}

// Is allows for error checking with errors.Is().
func (e *ErrNetwork) Is(target error) bool {
	_, ok := target.(*ErrNetwork)
	return ok
}

// ErrServerResponse is returned when the platform answered with an error.
// It is terminal: retrying the same request will not help.
type ErrServerResponse struct {
	URL        string
	StatusCode int
	Code       string // API error code, when the body carried one
	Message    string
}

// Error implements the error interface.
func (e *ErrServerResponse) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("server error response from %s: status %d, code %s: %s", e.URL, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("server error response from %s: status %d", e.URL, e.StatusCode)
}

// Is allows for error checking with errors.Is().
func (e *ErrServerResponse) Is(target error) bool {
	_, ok := target.(*ErrServerResponse)
	return ok
}

// ErrRetriesExhausted is returned when every allowed attempt failed with a retryable error.
type ErrRetriesExhausted struct {
	Attempts int
	Last     error
}

// Error implements the error interface.
func (e *ErrRetriesExhausted) Error() string {
	return fmt.Sprintf("gave up after %d attempts: %v", e.Attempts, e.Last)
}

// Unwrap returns the last failure.
func (e *ErrRetriesExhausted) Unwrap() error {
	return e.Last
}

// Is allows for error checking with errors.Is().
func (e *ErrRetriesExhausted) Is(target error) bool {
	_, ok := target.(*ErrRetriesExhausted)
	return ok
}

// ErrInvalidInput is returned when an input line or URL is not understood.
type ErrInvalidInput struct {
	Input    string
	Expected string
}

// Error implements the error interface.
func (e *ErrInvalidInput) Error() string {
	return fmt.Sprintf("%q did not match a %s", e.Input, e.Expected)
}

// Is allows for error checking with errors.Is().
func (e *ErrInvalidInput) Is(target error) bool {
	_, ok := target.(*ErrInvalidInput)
	return ok
}

// IsRetryable reports whether err is a transient failure worth retrying.
// Server responses and missing resources are terminal even when wrapped in a network error.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, &ErrServerResponse{}) || errors.Is(err, &ErrNotFound{}) {
		return false
	}
	return errors.Is(err, &ErrNetwork{})
}
