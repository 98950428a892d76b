// Package errors provides structured error handling for the tkbind binding layer.
package errors

import (
	"fmt"
	"time"
)

// Kind identifies the category of an error.
type Kind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown Kind = iota
	// KindReinstantiate indicates a second assignment to a write-once field.
	KindReinstantiate
	// KindStructure indicates a parent that does not satisfy the
	// child-ownership or handle-access contract.
	KindStructure
	// KindLookup indicates a reference to an unregistered command or observer.
	KindLookup
	// KindType indicates a constraint bound whose type does not match the
	// observed value.
	KindType
	// KindValue indicates an inverted interval or an out-of-bounds value.
	KindValue
	// KindUnsupported indicates a configuration value whose shape cannot be
	// classified as callback or flag.
	KindUnsupported
	// KindInterp indicates a failure at the native interpreter boundary.
	KindInterp
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k Kind) String() string {
	switch k {
	case KindReinstantiate:
		return "reinstantiate"
	case KindStructure:
		return "structure"
	case KindLookup:
		return "lookup"
	case KindType:
		return "type"
	case KindValue:
		return "value"
	case KindUnsupported:
		return "unsupported"
	case KindInterp:
		return "interp"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// Error represents a structured error in the binding layer.
type Error struct {
	// Op is the operation that failed (e.g., "session.Bind").
	Op string
	// Kind categorizes the error.
	Kind Kind
	// Err is the underlying error.
	Err error
	// Path is the interpreter tree-path of the object involved, if any.
	Path string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s [%s] path=%s: %v", e.Op, e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E constructs an Error from an operation, a kind, and an underlying error.
func E(op string, kind Kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err, Timestamp: time.Now()}
}

// Errorf constructs an Error with a formatted underlying message.
func Errorf(op string, kind Kind, format string, args ...any) *Error {
	return E(op, kind, fmt.Errorf(format, args...))
}

// Reinstantiated reports a second assignment to the named write-once field.
// The message mirrors the interpreter's own phrasing for singleton slots.
func Reinstantiated(op, field string) *Error {
	return Errorf(op, KindReinstantiate, "%s is already instantiated", field)
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked.
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// Handler receives errors reported by the binding layer.
type Handler interface {
	// HandleError is called when an error occurs.
	HandleError(err *Error)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
