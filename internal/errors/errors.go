// Package errors defines stable error codes for the analysis engine.
//
// Every fatal boundary in the pipeline wraps its failure in an *Error so
// callers (and the CLI) can react on the code rather than on message text.
package errors

import (
	"errors"
	"fmt"
)

// Code represents stable error codes for all failure modes.
type Code string

const (
	// SpecsDirMissing indicates the specs root directory does not exist.
	// Traceability analysis cannot proceed without it.
	SpecsDirMissing Code = "SPECS_DIR_MISSING"
	// MatrixWriteFailed indicates the traceability matrix could not be
	// written; in-memory links and the on-disk record would diverge.
	MatrixWriteFailed Code = "MATRIX_WRITE_FAILED"
	// ParseFailed indicates a source file could not be parsed.
	// Per-file parse failures are diagnostics, not run failures; this code
	// surfaces only when a caller asks for a single file explicitly.
	ParseFailed Code = "PARSE_FAILED"
	// ConfigInvalid indicates the loaded configuration failed validation.
	ConfigInvalid Code = "CONFIG_INVALID"
	// StorageFailed indicates the snapshot database could not be opened or
	// written.
	StorageFailed Code = "STORAGE_FAILED"
	// HistoryInvalid indicates the change-history metadata file could not
	// be read or decoded.
	HistoryInvalid Code = "HISTORY_INVALID"
	// InternalError indicates an unexpected failure.
	InternalError Code = "INTERNAL_ERROR"
)

// Error is an engine error with a stable code, message and optional cause.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error
}

// New creates an Error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates an Error wrapping an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// WithDetails attaches structured details to the error.
func (e *Error) WithDetails(details any) *Error {
	e.Details = details
	return e
}

// CodeOf extracts the engine error code from err, unwrapping as needed.
// Returns InternalError for nil-code errors and "" for nil.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return InternalError
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}
