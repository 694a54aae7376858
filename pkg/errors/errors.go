// Package errors provides structured error types for pframe.
//
// Every failure surfaced by the identity and resolution core is a caller
// input error: nothing is transient and nothing is retried. Errors carry a
// machine-readable [Code] and a message that embeds the offending
// identifier (axis name, anchor name, canonical key, index).
//
// # Error Codes
//
//   - MALFORMED_HIERARCHY: a parent reference points at an absent axis
//   - CYCLE_DETECTED: a parent cycle exists (normally reported as a flag)
//   - LINK_RESOLUTION: no linker path reaches a required target axis group
//   - ANCHOR_NOT_FOUND: an anchored reference names an unknown anchor
//   - AMBIGUOUS_AXIS_REFERENCE: an axis reference matched zero or several axes
//   - OUT_OF_RANGE: an index or name lies outside the referenced axis list
//
// Ambient codes (INVALID_INPUT, INVALID_FORMAT, FILE_NOT_FOUND,
// INTERNAL_ERROR) are used by the io, config and CLI layers.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeAnchorNotFound, "anchor %q not found", name)
//	if errors.Is(err, errors.ErrCodeAnchorNotFound) {
//	    // Handle missing anchor
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidFormat, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Resolution errors
	ErrCodeMalformedHierarchy     Code = "MALFORMED_HIERARCHY"
	ErrCodeCycleDetected          Code = "CYCLE_DETECTED"
	ErrCodeLinkResolution         Code = "LINK_RESOLUTION"
	ErrCodeAnchorNotFound         Code = "ANCHOR_NOT_FOUND"
	ErrCodeAmbiguousAxisReference Code = "AMBIGUOUS_AXIS_REFERENCE"
	ErrCodeOutOfRange             Code = "OUT_OF_RANGE"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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
// It unwraps the error chain looking for an *Error with a matching code.
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

// IsResolution reports whether err is one of the caller-input errors raised
// by the resolution core (as opposed to io, config or internal failures).
func IsResolution(err error) bool {
	switch GetCode(err) {
	case ErrCodeMalformedHierarchy, ErrCodeCycleDetected, ErrCodeLinkResolution,
		ErrCodeAnchorNotFound, ErrCodeAmbiguousAxisReference, ErrCodeOutOfRange:
		return true
	}
	return false
}
