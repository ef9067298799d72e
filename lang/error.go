package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
//
// Errors derived from a sentinel with [Error.Wrap] or [Error.With] still
// match it with [errors.Is].
var (
	// Syntax class, reported by [Criterion.SetExpression] and [Parse].
	ErrLex    = NewError("lexical error")
	ErrSyntax = NewError("syntax error")

	// Evaluation class, reported by [Eval] and [Criterion.Evaluate].
	ErrUnboundVariable = NewError("unbound variable")
	ErrTypeMismatch    = NewError("type mismatch")
	ErrUnknownFunction = NewError("unknown function")
	ErrBadArguments    = NewError("bad arguments")
	ErrNoExpression    = NewError("no expression")

	ErrReadInput     = NewError("failed to read input")
	ErrInvalidFormat = NewError("invalid format")
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
//
// Attributes are appended as "key=value" pairs so that the message stays
// useful when it is not rendered through slog.
func (e *Error) Error() string {
	part := make([]string, 0, 2+len(e.attrs))

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	msg := strings.Join(part, ": ")

	if len(e.attrs) == 0 {
		return msg
	}

	var sb strings.Builder

	sb.WriteString(msg)
	sb.WriteString(" (")

	for i, a := range e.attrs {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(a.Key)
		sb.WriteByte('=')

		if a.Value.Kind() == slog.KindString {
			sb.WriteString(strconv.Quote(a.Value.String()))
		} else {
			sb.WriteString(a.Value.String())
		}
	}

	sb.WriteByte(')')

	return sb.String()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an [Error] with the same base message.
// It lets derived errors match the sentinel they were created from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.msg != "" && t.msg == e.msg
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

// SyntaxError describes the first lexical or grammatical violation found in
// a formula. It unwraps to [ErrLex] or [ErrSyntax].
type SyntaxError struct {
	Pos    Position
	Msg    string
	Source string // The original formula text

	kind *Error
}

func newSyntaxError(kind *Error, pos Position, msg string) *SyntaxError {
	return &SyntaxError{Pos: pos, Msg: msg, kind: kind}
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	var buf strings.Builder

	if e.kind != nil {
		buf.WriteString(e.kind.msg)
	} else {
		buf.WriteString(ErrSyntax.msg)
	}

	buf.WriteString(" at column ")
	buf.WriteString(strconv.Itoa(e.Pos.Column))
	buf.WriteString(": ")
	buf.WriteString(e.Msg)

	return buf.String()
}

// Unwrap returns the sentinel describing the error class.
func (e *SyntaxError) Unwrap() error {
	if e.kind == nil {
		return ErrSyntax
	}

	return e.kind
}

// Snippet returns the offending source line with a caret marking the error
// column, or the empty string if no source is attached.
func (e *SyntaxError) Snippet() string {
	if e.Source == "" {
		return ""
	}

	lines := strings.Split(e.Source, "\n")
	if e.Pos.Line < 1 || e.Pos.Line > len(lines) {
		return ""
	}

	var src strings.Builder

	// Print the line followed by a marker pointing to the column
	src.WriteString("  ")
	src.WriteString(lines[e.Pos.Line-1])
	src.WriteRune('\n')

	padding := "  "
	if e.Pos.Column > 0 {
		padding += strings.Repeat(" ", e.Pos.Column-1)
	}

	src.WriteString(padding + "^\n")

	return src.String()
}

// LogValue implements slog.LogValuer.
func (e *SyntaxError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", e.Unwrap().(*Error).msg),
		slog.String("reason", e.Msg),
		slog.Int("line", e.Pos.Line),
		slog.Int("column", e.Pos.Column),
	)
}
