// Package errors provides structured error types for tfdiagram.
//
// Errors carry a machine-readable [Code] so the CLI can tell the fatal
// classes apart (missing tools, unknown environments, bad configuration)
// without matching on message text.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownEnvironment, "unknown environment: %s", key)
//	if errors.Is(err, errors.ErrCodeUnknownEnvironment) {
//	    // list the available environments
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidConfig, origErr, "parse %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Prerequisite errors
	ErrCodeMissingPrerequisite Code = "MISSING_PREREQUISITE"

	// Environment errors
	ErrCodeUnknownEnvironment  Code = "UNKNOWN_ENVIRONMENT"
	ErrCodeEnvironmentNotFound Code = "ENVIRONMENT_NOT_FOUND"
	ErrCodeMissingRootModule   Code = "MISSING_ROOT_MODULE"
	ErrCodeInvalidEnvironment  Code = "INVALID_ENVIRONMENT"

	// Input errors
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeMissingFlag   Code = "MISSING_FLAG"
	ErrCodeInvalidFlag   Code = "INVALID_FLAG"

	// External tool errors
	ErrCodeToolFailed Code = "TOOL_FAILED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// Only the outermost *Error in the chain is consulted.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
