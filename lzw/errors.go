package lzw

import (
	"errors"
	"fmt"
)

var (
	// ErrIncompleteStream means the input ended before its declared size
	// after the first code.
	ErrIncompleteStream = errors.New("lzw: incomplete stream")

	// ErrInvalidFirstCode means the first code is missing, truncated or not a
	// literal.
	ErrInvalidFirstCode = errors.New("lzw: invalid first code")

	// ErrInvalidCode means a code is beyond the next assignable dictionary slot.
	ErrInvalidCode = errors.New("lzw: invalid code")

	// ErrUnknownPadding is returned by ParsePadding.
	ErrUnknownPadding = errors.New("lzw: unknown padding")
)

// ErrorKind classifies a DecodeError.
type ErrorKind int

const (
	IncompleteStream ErrorKind = iota + 1
	InvalidFirstCode
	InvalidCode
)

func (k ErrorKind) String() string {
	switch k {
	case IncompleteStream:
		return "incomplete stream"
	case InvalidFirstCode:
		return "invalid first code"
	case InvalidCode:
		return "invalid code"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case IncompleteStream:
		return ErrIncompleteStream
	case InvalidFirstCode:
		return ErrInvalidFirstCode
	case InvalidCode:
		return ErrInvalidCode
	default:
		return nil
	}
}

// DecodeError describes why a session stopped.
type DecodeError struct {
	Kind ErrorKind

	// Code is the offending code, EndOfStream if none could be read.
	Code Code

	// Next is the next free dictionary slot when the error occurred.
	Next Code

	// Offset is the number of input bytes consumed.
	Offset int64

	// Err is the underlying read error, if any.
	Err error
}

func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("lzw: %s at byte %d", e.Kind, e.Offset)
	if e.Code != EndOfStream {
		msg += fmt.Sprintf(" (code %d, next %d)", e.Code, e.Next)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e.Kind.
func (e *DecodeError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}
