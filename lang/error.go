package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrUnknownIdentifier = NewError("unknown identifier")
	ErrArityMismatch     = NewError("arity mismatch")
	ErrTypeMismatch      = NewError("type mismatch")
	ErrNotCallable       = NewError("value is not callable")
	ErrNotIterable       = NewError("value is not iterable")
	ErrIndexOutOfRange   = NewError("index out of range")
	ErrUnboundAssignment = NewError("assignment to unbound name")
	ErrMemberAccess      = NewError("member access on non-object")
	ErrReadInput         = NewError("failed to read input")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an *Error with the same message, so an
// error derived from a sentinel through With or Wrap still matches it.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.msg != "" && t.msg == e.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// LexError reports an illegal character, unterminated string, or malformed
// number with its source position.
type LexError struct {
	Line   int
	Column int
	Reason string
}

func newLexError(line, column int, reason string) *LexError {
	return &LexError{Line: line, Column: column, Reason: reason}
}

// Error implements the error interface.
func (e *LexError) Error() string {
	return fmt.Sprintf(
		"lex error at line %d, column %d: %s",
		e.Line, e.Column, e.Reason,
	)
}

// ParseError reports the first unexpected token. No recovery is attempted.
type ParseError struct {
	Line     int
	Column   int
	Expected string
	Found    string
	Source   string // Original source input, for snippet rendering
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	var buf strings.Builder

	buf.WriteString("parse error at line ")
	buf.WriteString(strconv.Itoa(e.Line))
	buf.WriteString(", column ")
	buf.WriteString(strconv.Itoa(e.Column))
	buf.WriteString(": expected ")
	buf.WriteString(e.Expected)
	buf.WriteString(", found ")
	buf.WriteString(e.Found)

	if snippet := e.snippet(); snippet != "" {
		buf.WriteString("\n")
		buf.WriteString(snippet)
	}

	return buf.String()
}

// snippet renders the offending source line with a caret marker under the
// error column.
func (e *ParseError) snippet() string {
	if e.Source == "" || e.Line < 1 {
		return ""
	}

	lines := strings.Split(e.Source, "\n")
	if e.Line > len(lines) {
		return ""
	}

	line := lines[e.Line-1]

	var src strings.Builder

	src.WriteString("  ")
	src.WriteString(strconv.Itoa(e.Line))
	src.WriteString(" | ")
	src.WriteString(line)
	src.WriteByte('\n')

	// 2 leading spaces + line number + " | "
	padding := strings.Repeat(" ", len(strconv.Itoa(e.Line))+5)
	if e.Column > 0 {
		padding += strings.Repeat(" ", e.Column-1)
	}

	src.WriteString(padding + "^")

	return src.String()
}

// RuntimeError reports an evaluation failure at the position of the
// offending expression or statement.
type RuntimeError struct {
	Line   int
	Column int
	Err    error
}

func newRuntimeError(line, column int, err error) *RuntimeError {
	return &RuntimeError{Line: line, Column: column, Err: err}
}

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	return fmt.Sprintf(
		"runtime error at line %d, column %d: %s",
		e.Line, e.Column, e.Err,
	)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *RuntimeError) Unwrap() error { return e.Err }
