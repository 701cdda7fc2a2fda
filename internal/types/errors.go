package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a namespaced error code for Lattice errors.
type ErrorCode string

// Configuration error codes
const (
	CONFIG_LOAD_FAILED       ErrorCode = "CONFIG_LOAD_FAILED"
	CONFIG_PARSE_FAILED      ErrorCode = "CONFIG_PARSE_FAILED"
	CONFIG_VALIDATION_FAILED ErrorCode = "CONFIG_VALIDATION_FAILED"
)

// Schema catalog error codes
const (
	SCHEMA_PARSE_FAILED      ErrorCode = "SCHEMA_PARSE_FAILED"
	SCHEMA_ALIAS_UNRESOLVED  ErrorCode = "SCHEMA_ALIAS_UNRESOLVED"
	SCHEMA_DUPLICATE_KIND    ErrorCode = "SCHEMA_DUPLICATE_KIND"
	SCHEMA_UNKNOWN_REFERENCE ErrorCode = "SCHEMA_UNKNOWN_REFERENCE"
)

// Analytics error codes
const (
	ANALYTICS_PROJECTION_FAILED ErrorCode = "ANALYTICS_PROJECTION_FAILED"
	ANALYTICS_SELECTOR_MISSING  ErrorCode = "ANALYTICS_SELECTOR_MISSING"
	ANALYTICS_UNKNOWN_KIND      ErrorCode = "ANALYTICS_UNKNOWN_KIND"
	ANALYTICS_QUERY_FAILED      ErrorCode = "ANALYTICS_QUERY_FAILED"
)

// LatticeError represents a structured error with error code, message, and optional cause.
// It supports error wrapping and retryability hints for error handling logic.
type LatticeError struct {
	Code      ErrorCode
	Message   string
	Retryable bool
	Cause     error
}

// Error implements the error interface, returning a formatted error message.
// Format: "[CODE] message" or "[CODE] message: cause" if cause exists.
func (e *LatticeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error for error unwrapping chains.
// This enables using errors.Is() and errors.As() with wrapped errors.
func (e *LatticeError) Unwrap() error {
	return e.Cause
}

// Is checks if the target error matches this error by error code.
// Returns true if target is a LatticeError with the same Code.
func (e *LatticeError) Is(target error) bool {
	var latticeErr *LatticeError
	if errors.As(target, &latticeErr) {
		return e.Code == latticeErr.Code
	}
	return false
}

// NewError creates a new non-retryable LatticeError with the given code and message.
func NewError(code ErrorCode, message string) *LatticeError {
	return &LatticeError{
		Code:      code,
		Message:   message,
		Retryable: false,
		Cause:     nil,
	}
}

// NewRetryableError creates a new retryable LatticeError with the given code and message.
// Use this for transient errors that may succeed on retry (e.g., network timeouts).
func NewRetryableError(code ErrorCode, message string) *LatticeError {
	return &LatticeError{
		Code:      code,
		Message:   message,
		Retryable: true,
		Cause:     nil,
	}
}

// WrapError creates a new non-retryable LatticeError that wraps an existing error.
// The wrapped error is accessible via Unwrap() for error chain inspection.
func WrapError(code ErrorCode, message string, cause error) *LatticeError {
	return &LatticeError{
		Code:      code,
		Message:   message,
		Retryable: false,
		Cause:     cause,
	}
}
