package ccl

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind enumerates the stable failure codes every fallible operation in the
// package reports through.
type Kind int8

const (
	// NotFound indicates a search or remove target was absent.
	NotFound Kind = iota
	// Index indicates a numeric index fell outside the container's range.
	Index
	// ReadOnly indicates a mutation was attempted on a read-only container.
	ReadOnly
	// FileOpen indicates an I/O failure opening a persistence stream.
	FileOpen
	// FileRead indicates an I/O failure reading a persistence stream.
	FileRead
	// FileWrite indicates an I/O failure writing a persistence stream.
	FileWrite
	// WrongFile indicates a GUID mismatch while loading.
	WrongFile
	// NotImplemented indicates the operation is absent on this container.
	NotImplemented
	// InternalError indicates an invariant violation detected at runtime.
	InternalError
	// ObjectChanged indicates an iterator's timestamp no longer matches its container.
	ObjectChanged
	// NotEmpty indicates a "must be empty" precondition was violated.
	NotEmpty
	// Full indicates a fixed-capacity container could not accept more elements.
	Full
	// AssertionFailed indicates an explicit internal check failed.
	AssertionFailed
	// BadArg indicates a nil or otherwise invalid argument.
	BadArg
	// NoMemory indicates the allocator returned a nil/failed allocation.
	NoMemory
	// NoEnt indicates a named file was absent on create-from-file.
	NoEnt
	// Incompatible indicates element sizes or compare functions differ between operands.
	Incompatible
	// BadPointer indicates the debug allocator was asked to free an untracked pointer.
	BadPointer
	// BufferOverflow indicates the debug allocator's red zone was corrupted.
	BufferOverflow
	// DivisionByZero indicates an integer value-array division had a zero divisor.
	DivisionByZero
	// BadMask indicates a mask's length did not match the container's length.
	BadMask
)

var kindNames = map[Kind]string{
	NotFound:        "NOTFOUND",
	Index:           "INDEX",
	ReadOnly:        "READONLY",
	FileOpen:        "FILEOPEN",
	FileRead:        "FILE_READ",
	FileWrite:       "FILE_WRITE",
	WrongFile:       "WRONGFILE",
	NotImplemented:  "NOTIMPLEMENTED",
	InternalError:   "INTERNAL_ERROR",
	ObjectChanged:   "OBJECT_CHANGED",
	NotEmpty:        "NOT_EMPTY",
	Full:            "FULL",
	AssertionFailed: "ASSERTION_FAILED",
	BadArg:          "BADARG",
	NoMemory:        "NOMEMORY",
	NoEnt:           "NOENT",
	Incompatible:    "INCOMPATIBLE",
	BadPointer:      "BADPOINTER",
	BufferOverflow:  "BUFFEROVERFLOW",
	DivisionByZero:  "DIVISION_BY_ZERO",
	BadMask:         "BADMASK",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "UNKNOWN"
}

// Error wraps a Kind with the failing operation name and an optional cause.
type Error struct {
	Kind      Kind
	Operation string
	cause     error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Operation, e.Kind, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Operation, e.Kind)
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/As.
func (e *Error) Unwrap() error { return e.cause }

// Is reports whether target carries the same Kind, satisfying errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// newError builds an *Error, wrapping cause with a stack trace via pkg/errors
// when one is supplied so failures retain their origin across the fallible
// call chain.
func newError(op string, k Kind, cause error) *Error {
	if cause != nil {
		cause = errors.WithStack(cause)
	}
	return &Error{Kind: k, Operation: op, cause: cause}
}

// Hook is the error-reporting side channel every container consults on
// failure. It never returns a replacement value; InsertAtSparse is the one
// case (Vector auto-extend) that needed an opt-in extending variant instead.
type Hook func(err *Error)

// defaultHook is the process-wide fallback, used by containers created
// without SetErrorFunc.
var defaultHook Hook = func(err *Error) {}

// SetErrorFunc installs the process-wide default error hook.
func SetErrorFunc(h Hook) {
	if h == nil {
		h = func(*Error) {}
	}
	defaultHook = h
}

// reportError invokes a container's hook if set, else the process-wide default.
func reportError(h Hook, op string, k Kind, cause error) *Error {
	err := newError(op, k, cause)
	if h != nil {
		h(err)
	} else {
		defaultHook(err)
	}
	return err
}
