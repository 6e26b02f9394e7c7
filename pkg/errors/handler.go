package errors

import (
	"runtime"
	"strings"
	"time"
)

// Discard is an ErrorHandler that drops everything.
var Discard ErrorHandler = discardHandler{}

type discardHandler struct{}

func (discardHandler) HandleError(*EngineError) {}
func (discardHandler) HandlePanic(*PanicError)  {}

// Collector records everything it is handed.
type Collector struct {
	Errors []*EngineError
	Panics []*PanicError
}

func (c *Collector) HandleError(err *EngineError) { c.Errors = append(c.Errors, err) }
func (c *Collector) HandlePanic(err *PanicError)  { c.Panics = append(c.Panics, err) }

// Kinds returns the kind of every collected error, in order.
func (c *Collector) Kinds() []ErrorKind {
	kinds := make([]ErrorKind, len(c.Errors))
	for i, err := range c.Errors {
		kinds[i] = err.Kind
	}
	return kinds
}

// Reset drops everything collected so far.
func (c *Collector) Reset() {
	c.Errors = nil
	c.Panics = nil
}

// Report sends an error to h. A nil handler discards the error.
// If err.Timestamp is zero, it is set to the current time.
func Report(h ErrorHandler, err *EngineError) {
	if err == nil || h == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	h.HandleError(err)
}

// ReportPanic sends a panic error to h.
func ReportPanic(h ErrorHandler, err *PanicError) {
	if err == nil || h == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	h.HandlePanic(err)
}

// Recover is a helper for deferred panic recovery.
// Usage: defer errors.Recover(handler, "event.Dispatch")
func Recover(h ErrorHandler, op string) {
	if r := recover(); r != nil {
		ReportPanic(h, &PanicError{
			Op:         op,
			Value:      r,
			StackTrace: CaptureStack(),
			Timestamp:  time.Now(),
		})
	}
}

// CaptureStack returns the current call stack as a string.
// It skips the first few frames to exclude the CaptureStack call itself.
func CaptureStack() string {
	const maxDepth = 32
	var pcs [maxDepth]uintptr
	n := runtime.Callers(3, pcs[:])
	if n == 0 {
		return ""
	}

	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		frame, more := frames.Next()
		sb.WriteString(frame.Function)
		sb.WriteString("\n\t")
		sb.WriteString(frame.File)
		sb.WriteString(":")
		sb.WriteString(itoa(frame.Line))
		sb.WriteString("\n")
		if !more {
			break
		}
	}
	return sb.String()
}

// itoa converts an integer to a string without allocating.
func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := false
	if i < 0 {
		neg = true
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}
