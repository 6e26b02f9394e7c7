// Package errors provides structured error reporting for the retain engine.
//
// Native failures never abort a render or layout pass. They are reported to
// an ErrorHandler and the affected entity keeps its previous state until the
// next pass retries it.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindBackend indicates a failed native widget call.
	KindBackend
	// KindLayout indicates a failed geometry query or layout transaction.
	KindLayout
	// KindInit indicates a startup failure. These are fatal.
	KindInit
	// KindRender indicates a render pass error.
	KindRender
	// KindEvent indicates an event classification or dispatch error.
	KindEvent
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindBackend:
		return "backend"
	case KindLayout:
		return "layout"
	case KindInit:
		return "init"
	case KindRender:
		return "render"
	case KindEvent:
		return "event"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// EngineError represents a structured error raised by the engine.
type EngineError struct {
	// Op is the operation that failed (e.g., "core.Reconcile").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Path is the path index of the affected widget, if any.
	Path string
	// Handle is the native handle involved, if any.
	Handle uintptr
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *EngineError) Error() string {
	switch {
	case e.Path != "" || e.Handle != 0:
		return fmt.Sprintf("%s [%s] path=%q handle=%#x: %v", e.Op, e.Kind, e.Path, e.Handle, e.Err)
	default:
		return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
	}
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "event.Dispatch").
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

// ErrorHandler receives errors reported by the engine.
type ErrorHandler interface {
	// HandleError is called when an operation fails.
	HandleError(err *EngineError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
