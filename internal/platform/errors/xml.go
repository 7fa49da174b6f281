package errors

// XML decoder helpers for mapping encoding/xml and I/O failures onto ErrorCodeStream

import (
	"context"
	"encoding/xml"
	stderrs "errors"
	"io"
)

// ExtractSyntaxError returns (*xml.SyntaxError, true) if the root cause is a decoder syntax error
func ExtractSyntaxError(err error) (*xml.SyntaxError, bool) {
	var se *xml.SyntaxError
	if stderrs.As(err, &se) {
		return se, true
	}
	return nil, false
}

// FromStream maps a decoder or reader failure into a coded error
// Context cancellation keeps its own code so callers can tell it apart from a broken input
func FromStream(err error, op string) error {
	if err == nil {
		return nil
	}
	if _, ok := As(err); ok {
		return WithOp(err, op)
	}
	if stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return WithOp(Wrap(err, ErrorCodeCanceled, "scan canceled"), op)
	}
	if se, ok := ExtractSyntaxError(err); ok {
		return WithOp(Wrapf(err, ErrorCodeStream, "malformed xml at line %d", se.Line), op)
	}
	if stderrs.Is(err, io.ErrUnexpectedEOF) {
		return WithOp(Wrap(err, ErrorCodeStream, "truncated input"), op)
	}
	return WithOp(Wrap(err, ErrorCodeStream, "input unreadable"), op)
}
