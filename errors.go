package mal

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an error value. The kind is internal bookkeeping;
// the printed form of an error is always its message.
type ErrorKind int

const (
	ErrGeneric ErrorKind = iota
	ErrUnmatchedDelimiter
	ErrUnterminatedString
	ErrOddMapArity
	ErrNotHashable
	ErrSymbolNotFound
	ErrArity
	ErrTypeMismatch
	ErrDivisionByZero
	ErrBinding
	ErrIO
)

func (k ErrorKind) String() string {
	switch k {
	case ErrUnmatchedDelimiter:
		return "UnmatchedDelimiter"
	case ErrUnterminatedString:
		return "UnterminatedString"
	case ErrOddMapArity:
		return "OddMapArity"
	case ErrNotHashable:
		return "NotHashable"
	case ErrSymbolNotFound:
		return "SymbolNotFound"
	case ErrArity:
		return "ArityError"
	case ErrTypeMismatch:
		return "TypeMismatch"
	case ErrDivisionByZero:
		return "DivisionByZero"
	case ErrBinding:
		return "BindingError"
	case ErrIO:
		return "IOError"
	default:
		return "Error"
	}
}

// Error is the Go-side form of an error value. The reader and ToKey return
// it as an error; the evaluator turns it into a Value with ErrorVal.
type Error struct {
	Kind    ErrorKind
	Message string

	incomplete bool // input ended inside an open form
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf reports the ErrorKind carried by err, or ErrGeneric when err does
// not wrap an *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrGeneric
}

// IsIncomplete reports whether a reader error could be fixed by supplying
// more input: an unclosed list, vector or map, or an unterminated string.
func IsIncomplete(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == ErrUnterminatedString || (e.Kind == ErrUnmatchedDelimiter && e.incomplete)
}

func arityError(name string, got, want int) *Error {
	return newError(ErrArity, "%s: wrong number of arguments: got %d, expected %d", name, got, want)
}
