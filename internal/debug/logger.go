// Package debug provides process-wide logging on top of log/slog
package debug

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	// logger is the global logger instance; it discards everything until Init
	logger = newLogger(Options{Output: io.Discard})
	// enabled indicates if debug logging is enabled
	enabled bool
	// mu protects the logger and enabled flag
	mu sync.RWMutex
)

// Options controls where and how log records are written
type Options struct {
	// Output defaults to os.Stderr
	Output io.Writer
	// JSON switches from the text handler to the JSON handler
	JSON bool
	// Level is the minimum level written when debugging is off
	Level slog.Level
}

// Init enables or disables debug logging on stderr. When disabled only
// warnings and errors are written.
func Init(enable bool) {
	InitWithOptions(enable, Options{Level: slog.LevelWarn})
}

// InitWithOptions is Init with a custom output and format
func InitWithOptions(enable bool, opts Options) {
	if enable {
		opts.Level = slog.LevelDebug
	}

	mu.Lock()
	defer mu.Unlock()
	enabled = enable
	logger = newLogger(opts)
}

func newLogger(opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	handlerOpts := &slog.HandlerOptions{Level: opts.Level}
	if opts.JSON {
		return slog.New(slog.NewJSONHandler(out, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(out, handlerOpts))
}

// Enabled returns whether debug logging is enabled
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// Logger returns the underlying slog.Logger instance
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	Logger().Debug(msg, args...)
}

// Info logs an info message
func Info(msg string, args ...any) {
	Logger().Info(msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	Logger().Warn(msg, args...)
}

// Error logs an error message
func Error(msg string, args ...any) {
	Logger().Error(msg, args...)
}

// With returns a logger with the given attributes
func With(args ...any) *slog.Logger {
	return Logger().With(args...)
}
