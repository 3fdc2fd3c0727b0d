// Package debug provides the process logger using log/slog
package debug

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	// logger is the process-wide logger; it discards until Init is called
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	// enabled indicates if diagnostic logging is on
	enabled bool
	// mu protects logger and enabled
	mu sync.RWMutex
)

// Options configures the logger.
type Options struct {
	// Enabled turns diagnostics on. When false only errors reach Writer.
	Enabled bool
	// Level is one of debug, info, warn, error. Defaults to debug.
	Level string
	// JSON selects the JSON handler instead of text.
	JSON bool
	// Writer defaults to os.Stderr.
	Writer io.Writer
}

// Init installs a logger built from opts
func Init(opts Options) {
	mu.Lock()
	defer mu.Unlock()

	enabled = opts.Enabled

	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	level := slog.LevelError
	if opts.Enabled {
		level = ParseLevel(opts.Level)
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	logger = slog.New(handler)
}

// ParseLevel maps a level name to a slog level, defaulting to debug
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}

// EnabledFromEnv reports whether MIGRAPH_DEBUG asks for diagnostics
func EnabledFromEnv() bool {
	switch strings.ToLower(os.Getenv("MIGRAPH_DEBUG")) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// Enabled returns whether diagnostic logging is enabled
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
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

// Logger returns the underlying slog.Logger instance
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}
