package domain

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors produced deliberately by the service and repository
// layers. The API error handler maps each to a deterministic HTTP status.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrPlateTaken         = errors.New("license plate already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrBusNotFound        = errors.New("bus not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenMissing       = errors.New("missing authorization token")
	ErrTokenMalformed     = errors.New("malformed authorization token")
	ErrTokenExpired       = errors.New("token expired")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrForbidden          = errors.New("insufficient permissions")
)

// ValidationError reports a single out-of-contract input value. Field names
// the offending attribute so clients can highlight it.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a field-tagged validation failure.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// RateLimitError signals that a client exceeded a request window.
// RetryAfter tells the client how long to back off.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter.Round(time.Second))
}

// StorageError wraps an unexpected document-store failure. Repositories
// re-classify every raw driver error into this type so upper layers never
// see storage internals; the API surfaces it as a generic server error.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// NewStorageError wraps err with the failing operation name.
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}
