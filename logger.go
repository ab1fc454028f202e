package openbp

import (
	"log/slog"
	"os"

	"github.com/hupe1980/openbp/tree"
)

// Logger wraps slog.Logger with solver-specific context helpers, so log
// lines across the engine carry consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler. If handler is nil, a
// text handler to stderr at info level is used.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that writes JSON lines to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return &Logger{Logger: slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))}
}

// NewTextLogger creates a Logger that writes human-readable text to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))}
}

// NoopLogger creates a Logger that discards all output.
func NoopLogger() *Logger {
	return &Logger{Logger: slog.New(slog.DiscardHandler)}
}

// WithNode tags the logger with a node id.
func (l *Logger) WithNode(id tree.NodeID) *Logger {
	return &Logger{Logger: l.Logger.With("node", int64(id))}
}

// WithDepth tags the logger with a tree depth.
func (l *Logger) WithDepth(depth int32) *Logger {
	return &Logger{Logger: l.Logger.With("depth", depth)}
}

// WithStrategy tags the logger with a selection strategy name.
func (l *Logger) WithStrategy(name string) *Logger {
	return &Logger{Logger: l.Logger.With("strategy", name)}
}
