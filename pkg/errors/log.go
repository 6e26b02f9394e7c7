package errors

import (
	"log/slog"
)

// LogHandler is an ErrorHandler that writes structured records to a slog.Logger.
type LogHandler struct {
	// Logger receives the records. Nil means slog.Default().
	Logger *slog.Logger
	// Verbose enables stack traces in the output.
	Verbose bool
}

// NewLogHandler returns a LogHandler writing to logger.
func NewLogHandler(logger *slog.Logger, verbose bool) *LogHandler {
	return &LogHandler{Logger: logger, Verbose: verbose}
}

func (h *LogHandler) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}

// HandleError logs an EngineError. Init failures are logged at error level,
// everything else is retried next pass and logged as a warning.
func (h *LogHandler) HandleError(err *EngineError) {
	if err == nil {
		return
	}
	attrs := []any{"op", err.Op, "kind", err.Kind.String(), "err", err.Err}
	if err.Path != "" {
		attrs = append(attrs, "path", err.Path)
	}
	if err.Handle != 0 {
		attrs = append(attrs, "handle", err.Handle)
	}
	if h.Verbose && err.StackTrace != "" {
		attrs = append(attrs, "stack", err.StackTrace)
	}
	if err.Kind == KindInit {
		h.logger().Error("retain error", attrs...)
		return
	}
	h.logger().Warn("retain error", attrs...)
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	attrs := []any{"op", err.Op, "value", err.Value}
	if h.Verbose && err.StackTrace != "" {
		attrs = append(attrs, "stack", err.StackTrace)
	}
	h.logger().Error("retain panic", attrs...)
}
