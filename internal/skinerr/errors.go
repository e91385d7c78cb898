// Package skinerr defines the error kinds shared by the skin codecs.
//
// Every failure produced while reading or writing skin data carries one of
// the sentinel kinds below, so callers can classify it with errors.Is
// without caring which package produced it.
package skinerr

import (
	"errors"
	"fmt"
)

var (
	// ErrDecode marks malformed input: bad blob lengths, out-of-range
	// enumeration values, corrupt images.
	ErrDecode = errors.New("decode error")

	// ErrEncode marks values that cannot be represented in the target format.
	ErrEncode = errors.New("encode error")

	// ErrInvalidArgument marks caller-supplied values rejected before encoding.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInconsistentState marks a feature flag that disagrees with its
	// backing data after the repair pass has run.
	ErrInconsistentState = errors.New("inconsistent state")
)

// Error is a classified failure. Kind is one of the sentinels above.
type Error struct {
	Kind error
	Op   string // e.g. "alfalfa: read"
	Msg  string
	Err  error // optional cause
}

func (e *Error) Error() string {
	s := e.Op + ": " + e.Kind.Error()
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Decodef returns an ErrDecode failure for op.
func Decodef(op, format string, args ...any) error {
	return &Error{Kind: ErrDecode, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Encodef returns an ErrEncode failure for op.
func Encodef(op, format string, args ...any) error {
	return &Error{Kind: ErrEncode, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Wrap classifies err under kind. A nil err yields nil.
func Wrap(kind error, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// IsCorrupt reports whether err means the skin data could not be read or
// written, which tools surface as "unreadable or corrupt skin data".
func IsCorrupt(err error) bool {
	return errors.Is(err, ErrDecode) || errors.Is(err, ErrEncode)
}
