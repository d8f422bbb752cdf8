// Package apperr defines structured error types for the tracker.
// Errors carry a machine-readable code, a human-readable message,
// and optional details for programmatic consumption.
package apperr

import (
	"fmt"
	"strconv"
)

// Error code constants. Uppercase, underscore-separated, stable across minor versions.
const (
	ValidationFailed = "VALIDATION_FAILED"
	ProjectNotFound  = "PROJECT_NOT_FOUND"
	TaskNotFound     = "TASK_NOT_FOUND"
	AssigneeNotFound = "ASSIGNEE_NOT_FOUND"
	UserNotFound     = "USER_NOT_FOUND"
	InvalidStatus    = "INVALID_STATUS"
	InvalidDate      = "INVALID_DATE"
	InvalidInput     = "INVALID_INPUT"
	MutationFailed   = "MUTATION_FAILED"
	InternalError    = "INTERNAL_ERROR"
)

// Error represents a structured error with a machine-readable code.
type Error struct {
	Code    string
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Message }

// New creates an Error with the given code and message.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithDetails returns the error with the given details map attached.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// ExitCode returns 2 for InternalError, 1 for all others.
func (e *Error) ExitCode() int {
	if e.Code == InternalError {
		return 2 //nolint:mnd // exit code 2 for internal errors
	}
	return 1
}

// IsValidation reports whether the code marks a form-input failure that must
// be resolved locally and never sent to the network.
func (e *Error) IsValidation() bool {
	switch e.Code {
	case ValidationFailed, InvalidStatus, InvalidDate, InvalidInput:
		return true
	}
	return false
}

// SilentError signals an exit code without additional output.
// Used by batch operations where results are already written to stdout.
type SilentError struct {
	Code int
}

// Error implements the error interface.
func (e *SilentError) Error() string { return "exit " + strconv.Itoa(e.Code) }
