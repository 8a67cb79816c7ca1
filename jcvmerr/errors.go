// Package jcvmerr defines the fault kinds the core raises (spec §7) and a
// small typed-error carrier used instead of bare fmt.Errorf everywhere a
// caller needs to branch on the kind of failure (e.g. athrow's handler
// search, or a caller mapping a fault onto a CLI exit code).
package jcvmerr

import "fmt"

// Kind identifies one of the fault kinds recognized by the core (spec §7).
type Kind int

const (
	KindNullPointer Kind = iota
	KindSecurity
	KindArrayStore
	KindArrayIndexOutOfBounds
	KindIndexOutOfBounds
	KindNegativeArraySize
	KindClassCast
	KindArithmetic
	KindStackOverflow
	KindStackUnderflow
	KindRuntime
	KindIO
	KindNotYetImplemented
	KindFullMemory
)

func (k Kind) String() string {
	switch k {
	case KindNullPointer:
		return "null-pointer"
	case KindSecurity:
		return "security"
	case KindArrayStore:
		return "array-store"
	case KindArrayIndexOutOfBounds:
		return "array-index-out-of-bounds"
	case KindIndexOutOfBounds:
		return "index-out-of-bounds"
	case KindNegativeArraySize:
		return "negative-array-size"
	case KindClassCast:
		return "class-cast"
	case KindArithmetic:
		return "arithmetic"
	case KindStackOverflow:
		return "stack-overflow"
	case KindStackUnderflow:
		return "stack-underflow"
	case KindRuntime:
		return "runtime"
	case KindIO:
		return "I/O"
	case KindNotYetImplemented:
		return "not-yet-implemented"
	case KindFullMemory:
		return "full-memory"
	default:
		return "unknown"
	}
}

// Fault is the typed carrier for a raised core exception kind.
type Fault struct {
	Kind Kind
	Msg  string
	Err  error
}

func (f *Fault) Error() string {
	if f.Msg == "" {
		return f.Kind.String()
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Msg)
}

func (f *Fault) Unwrap() error { return f.Err }

// New builds a Fault of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Fault {
	return &Fault{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds a Fault of the given kind around an underlying error.
func Wrap(kind Kind, err error) *Fault {
	if err == nil {
		return nil
	}
	return &Fault{Kind: kind, Msg: err.Error(), Err: err}
}

// Is reports whether err is a *Fault of the given kind.
func Is(err error, kind Kind) bool {
	f, ok := err.(*Fault)
	return ok && f.Kind == kind
}
