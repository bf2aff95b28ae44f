package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// Expected, recoverable-by-caller conditions
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeInvalidValue ErrorType = "INVALID_VALUE"
	ErrorTypeConflict     ErrorType = "CONSTRAINT_VIOLATION"

	// Data-integrity bugs - returned as typed results but logged loudly
	ErrorTypeCorruptRecord   ErrorType = "CORRUPT_RECORD"
	ErrorTypeImmutableRecord ErrorType = "IMMUTABLE_RECORD"

	// Infrastructure errors
	ErrorTypeUnavailable ErrorType = "STORE_UNAVAILABLE"
	ErrorTypeInternal    ErrorType = "INTERNAL"
)

// AppError represents an application-specific error
type AppError struct {
	Type       ErrorType              `json:"type"`
	Message    string                 `json:"message"`
	Code       string                 `json:"code,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	Retryable  bool                   `json:"retryable"`
	HTTPStatus int                    `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches AppErrors by type so errors.Is works across instances
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// WithCode adds an error code
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithDetails adds error details
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

// WithDetail adds a single detail
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithCause wraps an underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// Constructor functions for common error types

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
	}
}

// NewUnauthorizedError creates an ownership-mismatch error
func NewUnauthorizedError(message string) *AppError {
	if message == "" {
		message = "unauthorized"
	}
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
	}
}

// NewInvalidValueError creates a value-object construction error
func NewInvalidValueError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeInvalidValue,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewCorruptRecordError creates an error for a stored record whose
// discriminator and payload disagree. Indicates a data-integrity bug.
func NewCorruptRecordError(recordID, message string) *AppError {
	return &AppError{
		Type:       ErrorTypeCorruptRecord,
		Message:    message,
		Details:    map[string]interface{}{"record_id": recordID},
		HTTPStatus: http.StatusInternalServerError,
	}
}

// NewImmutableRecordError creates an error for an attempted mutation of an
// append-only record
func NewImmutableRecordError(resource string) *AppError {
	return &AppError{
		Type:       ErrorTypeImmutableRecord,
		Message:    fmt.Sprintf("%s is append-only and cannot be modified", resource),
		HTTPStatus: http.StatusConflict,
	}
}

// NewConflictError creates a uniqueness or cascade constraint error
func NewConflictError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Message:    message,
		Retryable:  true,
		HTTPStatus: http.StatusConflict,
	}
}

// NewUnavailableError creates a transient infrastructure error
func NewUnavailableError(operation string, err error) *AppError {
	return &AppError{
		Type:       ErrorTypeUnavailable,
		Message:    fmt.Sprintf("store operation '%s' failed", operation),
		Cause:      err,
		Retryable:  true,
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

// NewInternalError creates an internal error
func NewInternalError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// Helper functions

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts AppError from an error chain
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsType checks if an error is of a specific type
func IsType(err error, errType ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == errType
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return IsType(err, ErrorTypeNotFound)
}

// IsUnauthorized checks if an error is an ownership-mismatch error
func IsUnauthorized(err error) bool {
	return IsType(err, ErrorTypeUnauthorized)
}

// IsInvalidValue checks if an error is a value validation error
func IsInvalidValue(err error) bool {
	return IsType(err, ErrorTypeInvalidValue)
}

// IsCorruptRecord checks if an error is a corrupt record error
func IsCorruptRecord(err error) bool {
	return IsType(err, ErrorTypeCorruptRecord)
}

// IsImmutableRecord checks if an error is an immutable record error
func IsImmutableRecord(err error) bool {
	return IsType(err, ErrorTypeImmutableRecord)
}

// IsConflict checks if an error is a constraint violation
func IsConflict(err error) bool {
	return IsType(err, ErrorTypeConflict)
}

// IsUnavailable checks if an error is a transient store failure
func IsUnavailable(err error) bool {
	return IsType(err, ErrorTypeUnavailable)
}

// IsRetryable reports whether the caller may retry the failed operation
func IsRetryable(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Retryable
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	// If it's already an AppError, add context to message
	if appErr := GetAppError(err); appErr != nil {
		appErr.Message = fmt.Sprintf("%s: %s", message, appErr.Message)
		return appErr
	}

	// Otherwise create a new internal error
	return NewInternalError(message).WithCause(err)
}

// Wrapf wraps an error with formatted message
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}
