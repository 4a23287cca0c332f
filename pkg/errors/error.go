// Package errors provides structured error handling with typed error codes.
//
// Error codes are organized into categories:
//   - General errors (1-99): Unknown and general errors
//   - Validation errors (100-199): Invalid parameters, missing data, limit violations
//   - Configuration errors (200-299): Missing or malformed client configuration
//   - Transport errors (300-399): Socket dial, read, and write failures
//   - Decode errors (400-499): Malformed frames and unrecognized payloads
//   - Feed errors (500-599): Feed client lifecycle and state errors
//   - API errors (600-699): Venue REST call failures
//
// Usage:
//
//	// Create a new error
//	err := errors.New(errors.ErrCodeInvalidParameter, "invalid parameter value")
//
//	// Create a formatted error
//	err := errors.Newf(errors.ErrCodeAPIRequestFailed, "request to %s failed", endpoint)
//
//	// Wrap an existing error
//	err := errors.Wrap(errors.ErrCodeDialFailed, "failed to open socket", originalErr)
//
//	// Check error code
//	if errors.HasCode(err, errors.ErrCodeConnectionLost) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Error represents a structured error with an error code and message.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   nil,
	}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   nil,
	}
}

// Wrap wraps an existing error with a new Error containing the given code and message.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an existing error with a new Error containing the given code and formatted message.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether any error in err's chain matches target.
// This is a convenience wrapper around the standard errors.Is function.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// This is a convenience wrapper around the standard errors.As function.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode extracts the ErrorCode from an error if it's an *Error type.
// Returns ErrCodeUnknown if the error is not an *Error type.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return ErrCodeUnknown
}

// HasCode checks if an error has a specific ErrorCode.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// APIError represents a rejection from the venue REST API, carrying the
// HTTP status and the detail string the venue returned in the response body.
type APIError struct {
	StatusCode int    // HTTP status code of the response
	Detail     string // Venue-provided detail message
	Endpoint   string // Optional: path of the failing endpoint
}

// NewAPIError creates a new APIError.
func NewAPIError(statusCode int, detail, endpoint string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Detail:     detail,
		Endpoint:   endpoint,
	}
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("venue api %s returned %d: %s", e.Endpoint, e.StatusCode, e.Detail)
	}

	return fmt.Sprintf("venue api returned %d: %s", e.StatusCode, e.Detail)
}

// IsAPIError checks if an error is an APIError.
// It uses errors.As to check the error chain.
func IsAPIError(err error) bool {
	var apiErr *APIError

	return errors.As(err, &apiErr)
}
