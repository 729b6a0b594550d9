// Package errors defines the coded errors shared by the converter, the
// serializer, the CLI and the HTTP API.
//
// A code classifies the failure; the message is safe to show to a user.
// Conversion failures carry chess-specific codes: MALFORMED_FEN for a
// starting position that does not parse, ILLEGAL_MOVE for a line the rules
// engine rejects, and DANGLING_REFERENCE (see [DanglingReferenceError]) for
// a move into a position missing from the graph. The HTTP API picks its
// status from the code.
//
//	err := errors.Wrap(errors.ErrCodeIllegalMove, err, "line %d: cannot play %s", n, san)
//	if errors.Is(err, errors.ErrCodeIllegalMove) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidFormat     Code = "INVALID_FORMAT"
	ErrCodeInvalidPath       Code = "INVALID_PATH"
	ErrCodeInvalidRepertoire Code = "INVALID_REPERTOIRE"
	ErrCodeMalformedFEN      Code = "MALFORMED_FEN"
	ErrCodeIllegalMove       Code = "ILLEGAL_MOVE"

	// Structural integrity errors
	ErrCodeDanglingReference Code = "DANGLING_REFERENCE"

	// Resource not found errors
	ErrCodeNotFound           Code = "NOT_FOUND"
	ErrCodeRepertoireNotFound Code = "REPERTOIRE_NOT_FOUND"
	ErrCodeFileNotFound       Code = "FILE_NOT_FOUND"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

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

// coder is implemented by typed errors that carry their own code.
type coder interface {
	Code() Code
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error or a typed error
// with a Code method whose code matches.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if no error in the chain carries a code.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}
	return ""
}

// GetCodeOr is like GetCode but returns fallback when err carries no code.
func GetCodeOr(err error, fallback Code) Code {
	if c := GetCode(err); c != "" {
		return c
	}
	return fallback
}

// UserMessage returns a user-friendly message for the error: the messages
// of the coded errors in the chain joined by ": ", without code prefixes.
// Uncoded causes are left out. Errors without a code return their text.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Cause != nil && GetCode(e.Cause) != "" {
		return e.Message + ": " + UserMessage(e.Cause)
	}
	return e.Message
}

// DanglingReferenceError reports a move whose destination position is not
// part of the repertoire graph. It always fails a conversion: a repertoire
// that references missing positions is corrupt and is never partially
// exported.
type DanglingReferenceError struct {
	From string // Key of the position the move is played from
	SAN  string // The offending move
	Key  string // The missing destination key
}

// Error implements the error interface.
func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("%s: move %s from %q points to unknown position %q",
		ErrCodeDanglingReference, e.SAN, e.From, e.Key)
}

// Code returns the error code for this error type.
func (e *DanglingReferenceError) Code() Code {
	return ErrCodeDanglingReference
}
