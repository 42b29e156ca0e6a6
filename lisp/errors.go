package lisp

import (
	"errors"
	"fmt"
)

// ErrorKind classifies errors raised by the reader and the evaluator.
type ErrorKind int

const (
	ParseError ErrorKind = iota
	UnboundVariable
	ArityError
	TypeError
	IndexError
	ZeroDivision
	StackOverflow
	UnsupportedOperation
)

var kindNames = [...]string{
	"ParseError", "UnboundVariable", "ArityError", "TypeError",
	"IndexError", "ZeroDivision", "StackOverflow", "UnsupportedOperation",
}

func (k ErrorKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Reasons for a ParseError.
var (
	ErrUnexpectedEOF        = errors.New("unexpected EOF while reading")
	ErrUnexpectedCloseParen = errors.New("unexpected )")
	ErrUnterminatedString   = errors.New("unterminated string literal")
)

// ErrQuit is raised by (quit) and (exit).
var ErrQuit = errors.New("quit")

// Error represents an error in reading or evaluation.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func newError(kind ErrorKind, format string, args ...Any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func newParseError(reason error, format string, args ...Any) *Error {
	e := newError(ParseError, format, args...)
	e.Err = reason
	return e
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// LoadError reports the form of a file which failed to evaluate.
type LoadError struct {
	File   string
	Line   int
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
