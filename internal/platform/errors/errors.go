// Package errors provides a structured error type with wrapping and metadata
package errors

// Always import the project errors package as perr (platform/errors)

import (
	stderrs "errors"
	"fmt"
)

// ErrorCode defines supported error codes used across the extractor
// Values are stable for exit status mapping; add sparingly
type ErrorCode uint16

const (
	// ErrorCodeUnknown is for unclassified errors
	ErrorCodeUnknown ErrorCode = iota

	// ErrorCodeConfig is for contradictory or invalid filter/target arguments
	ErrorCodeConfig

	// ErrorCodeNotFound is for a missing input
	ErrorCodeNotFound

	// ErrorCodeRecord is for a single malformed row; never fatal to a scan
	ErrorCodeRecord

	// ErrorCodeStream is for structurally broken XML or an unreadable input
	ErrorCodeStream

	// ErrorCodeOutput is for a sink that cannot be written
	ErrorCodeOutput

	// ErrorCodeCanceled is for scans stopped by the caller's context
	ErrorCodeCanceled
)

// String returns a short label used in logs
func (c ErrorCode) String() string {
	switch c {
	case ErrorCodeConfig:
		return "config"
	case ErrorCodeNotFound:
		return "not_found"
	case ErrorCodeRecord:
		return "record"
	case ErrorCodeStream:
		return "stream"
	case ErrorCodeOutput:
		return "output"
	case ErrorCodeCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Exit status values returned by ExitCodeOf
const (
	ExitOK     = 0
	ExitFailed = 1
	ExitUsage  = 2
)

// ExitCodeOf turns an ErrorCode into a process exit status
func ExitCodeOf(c ErrorCode) int {
	switch c {
	case ErrorCodeConfig, ErrorCodeNotFound:
		return ExitUsage
	default:
		return ExitFailed
	}
}

// Error is the structured error type with wrapping and metadata
// msg is human/developer facing; code is machine facing
// field is optional (for validation); op is optional operation tag
// orig is the wrapped cause
type Error struct {
	orig  error
	msg   string
	code  ErrorCode
	field string
	op    string
}

// Error implements the error interface
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.orig != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.orig)
	}
	return e.msg
}

// Unwrap returns the wrapped error, if any
func (e *Error) Unwrap() error { return e.orig }

// Code returns the error code
func (e *Error) Code() ErrorCode { return e.code }

// Message returns the message without the wrapped cause
func (e *Error) Message() string { return e.msg }

// Field returns the offending field, if any
func (e *Error) Field() string { return e.field }

// Op returns the operation label, if set
func (e *Error) Op() string { return e.op }

// CodeOf extracts an ErrorCode from any error, defaulting to Unknown
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether err has the given code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// ExitCode returns the process exit status for any error; nil is success
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	return ExitCodeOf(CodeOf(err))
}

// As unwraps and returns (*Error, true) if err is one of ours
func As(err error) (*Error, bool) {
	var e *Error
	if stderrs.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Mutators (copy-on-write)

// WithField attaches a field to an *Error (copy-on-write). If err isn't *Error, returns err unchanged
func WithField(err error, field string) error {
	if e, ok := As(err); ok {
		c := *e
		c.field = field
		return &c
	}
	return err
}

// WithOp attaches an operation label to an *Error (copy-on-write). If err isn't *Error, returns err unchanged
func WithOp(err error, op string) error {
	if e, ok := As(err); ok {
		c := *e
		c.op = op
		return &c
	}
	return err
}

// Constructors

// New returns a new *Error with the given code and message
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

// Newf returns a new *Error with code and formatted message
func Newf(code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...)}
}

// Wrap returns a new *Error that wraps orig with code and message
func Wrap(orig error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, orig: orig}
}

// Wrapf returns a new *Error that wraps orig with code and formatted message
func Wrapf(orig error, code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...), orig: orig}
}

// Sugar

// Configf returns a configuration error
func Configf(format string, a ...any) error { return Newf(ErrorCodeConfig, format, a...) }

// NotFoundf returns a not found error
func NotFoundf(format string, a ...any) error { return Newf(ErrorCodeNotFound, format, a...) }

// Recordf returns a per-row parse error
func Recordf(format string, a ...any) error { return Newf(ErrorCodeRecord, format, a...) }

// Streamf returns a fatal stream error
func Streamf(format string, a ...any) error { return Newf(ErrorCodeStream, format, a...) }

// Outputf returns an output write error
func Outputf(format string, a ...any) error { return Newf(ErrorCodeOutput, format, a...) }
