// Package errors provides the coded error kinds used across composer-link.
//
// Identity and path failures carry a Code so callers can tell them apart
// without matching on message text:
//
//	err := errors.New(errors.ErrCodeMissingManifest, "no composer.json found at %s", path)
//	if errors.Is(err, errors.ErrCodeMissingManifest) {
//	    // ...
//	}
//
// Skip conditions such as "already linked" or "not found" are not errors;
// they are reported as outcomes by the linker.
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

const (
	// ErrCodeMissingManifest means a target directory has no composer.json.
	ErrCodeMissingManifest Code = "MISSING_MANIFEST"
	// ErrCodeInvalidManifest means a composer.json is unreadable or lacks a usable name.
	ErrCodeInvalidManifest Code = "INVALID_MANIFEST"
	// ErrCodePathResolution means a relative path could not be canonicalized.
	ErrCodePathResolution Code = "PATH_RESOLUTION"
	// ErrCodeInstallFailed means the resolver/installer could not be run.
	ErrCodeInstallFailed Code = "INSTALL_FAILED"
	// ErrCodeInternal is for unexpected failures.
	ErrCodeInternal Code = "INTERNAL_ERROR"
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
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
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
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without the cause chain for *Error values,
// and the plain error string otherwise.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// ExitError carries a process exit code from the resolver/installer so the
// command layer can exit with the same status.
type ExitError struct {
	Code int
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return fmt.Sprintf("installer exited with status %d", e.Code)
}
