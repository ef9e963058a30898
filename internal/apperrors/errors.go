package apperrors

import (
	"errors"
	"fmt"
)

// AppError represents an application-specific error
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Source     string `json:"source,omitempty"`
	RetryAfter int    `json:"retryAfter,omitempty"` // seconds, only for RATE_LIMITED
	Cause      error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Error codes used across the engine
const (
	ErrCodeNotFound    = "NOT_FOUND"
	ErrCodeRateLimited = "RATE_LIMITED"
	ErrCodeSource      = "SOURCE_ERROR"
	ErrCodeValidation  = "VALIDATION_ERROR"
	ErrCodeInternal    = "INTERNAL_ERROR"
)

// NotFound creates a NOT_FOUND error
func NotFound(message string) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: message}
}

// RateLimited creates a RATE_LIMITED error with a retry hint in seconds
func RateLimited(source string, retryAfter int) *AppError {
	return &AppError{
		Code:       ErrCodeRateLimited,
		Message:    fmt.Sprintf("rate limit bereikt voor bron %s", source),
		Source:     source,
		RetryAfter: retryAfter,
	}
}

// SourceError creates a SOURCE_ERROR for a failed upstream source
func SourceError(source, message string, cause error) *AppError {
	return &AppError{Code: ErrCodeSource, Message: message, Source: source, Cause: cause}
}

// ValidationError creates a VALIDATION_ERROR for malformed caller input
func ValidationError(message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message}
}

// InternalError creates an INTERNAL_ERROR
func InternalError(message string, cause error) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: message, Cause: cause}
}

// As extracts an AppError from an error chain
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// CodeOf returns the application error code, or INTERNAL_ERROR for plain errors
func CodeOf(err error) string {
	if appErr, ok := As(err); ok {
		return appErr.Code
	}
	return ErrCodeInternal
}
