// Package errors provides structured error handling with HTTP status code mapping.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the category of error for response formatting.
type ErrorType string

const (
	// TypeConfiguration indicates missing or invalid connection settings; fatal at startup.
	TypeConfiguration ErrorType = "configuration"
	// TypeValidation indicates invalid input (HTTP 400)
	TypeValidation ErrorType = "validation"
	// TypeNotFound indicates resource not found (HTTP 404)
	TypeNotFound ErrorType = "not_found"
	// TypeLoad indicates the feed load failed even after the unordered fallback (HTTP 502)
	TypeLoad ErrorType = "load"
	// TypePost indicates the confession submit failed remotely (HTTP 502)
	TypePost ErrorType = "post"
	// TypeExternal indicates any other remote table store failure (HTTP 502)
	TypeExternal ErrorType = "external"
)

// Error represents a structured error with type, message, and cause.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the appropriate HTTP status code for this error type.
func (e *Error) HTTPStatus() int {
	switch e.Type {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeNotFound:
		return http.StatusNotFound
	case TypeLoad, TypePost, TypeExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ConfigurationError creates a fatal settings error. Not recoverable by retry.
func ConfigurationError(message string) *Error {
	return &Error{Type: TypeConfiguration, Message: message}
}

// ValidationError creates a new validation error (HTTP 400).
func ValidationError(message string) *Error {
	return &Error{Type: TypeValidation, Message: message}
}

// NotFoundError creates a new not-found error (HTTP 404).
func NotFoundError(message string) *Error {
	return &Error{Type: TypeNotFound, Message: message}
}

// LoadError creates an error for a feed load that failed after both query attempts.
func LoadError(message string, cause error) *Error {
	return &Error{Type: TypeLoad, Message: message, Cause: cause}
}

// PostError creates an error for a failed confession submit.
func PostError(message string, cause error) *Error {
	return &Error{Type: TypePost, Message: message, Cause: cause}
}

// ExternalError creates a new remote service error (HTTP 502).
func ExternalError(message string, cause error) *Error {
	return &Error{Type: TypeExternal, Message: message, Cause: cause}
}

// ErrorResponse represents the JSON structure sent to clients.
type ErrorResponse struct {
	Error   ErrorType `json:"error"`
	Message string    `json:"message"`
}

// ToResponse converts an Error to an ErrorResponse for JSON serialization.
func (e *Error) ToResponse() ErrorResponse {
	return ErrorResponse{Error: e.Type, Message: e.Message}
}

// AsStructuredError converts any error into a structured Error.
// If err is already an *Error, returns it unchanged.
// Otherwise wraps it as an external error.
func AsStructuredError(err error) *Error {
	if err == nil {
		return nil
	}

	var structuredErr *Error
	if errors.As(err, &structuredErr) {
		return structuredErr
	}

	return ExternalError("remote table store request failed", err)
}
