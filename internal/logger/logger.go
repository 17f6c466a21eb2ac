// Package logger provides the process-wide structured logger.
//
// It wraps log/slog with a package-level API so call sites stay terse:
//
//	logger.Info("block uploaded", "id", id, "start", start)
//
// Output format (text with optional color, or json) and level are set
// once at startup via Init and may be adjusted at runtime.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Level represents log levels.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLevel converts a level name to a Level. Unknown names map to INFO.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

// Config holds logger configuration.
type Config struct {
	Level  string // DEBUG, INFO, WARN, ERROR
	Format string // text, json
	Output string // stdout, stderr, or a file path
}

var (
	mu       sync.RWMutex
	slogger  *slog.Logger
	levelVar = new(slog.LevelVar)
	output   io.Writer = os.Stdout
	useColor bool
)

func init() {
	useColor = isTerminal(os.Stdout)
	reconfigure("text")
}

// reconfigure rebuilds the handler. Callers must hold mu.
func reconfigure(format string) {
	opts := &slog.HandlerOptions{Level: levelVar}
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = NewColorTextHandler(output, opts, useColor)
	}
	slogger = slog.New(handler)
}

// Init initializes the logger from configuration.
// Output can be "stdout", "stderr", or a file path.
func Init(cfg Config) error {
	mu.Lock()
	defer mu.Unlock()

	switch strings.ToLower(cfg.Output) {
	case "", "stdout":
		output = os.Stdout
		useColor = isTerminal(os.Stdout)
	case "stderr":
		output = os.Stderr
		useColor = isTerminal(os.Stderr)
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file %s: %w", cfg.Output, err)
		}
		output = f
		useColor = false
	}

	levelVar.Set(ParseLevel(cfg.Level).slogLevel())
	reconfigure(strings.ToLower(cfg.Format))
	return nil
}

// SetLevel changes the minimum level at runtime.
func SetLevel(l Level) {
	levelVar.Set(l.slogLevel())
}

// isTerminal reports whether w is an interactive terminal.
// Respects the NO_COLOR convention.
func isTerminal(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return slogger
}

// Debug logs at DEBUG level with alternating key-value pairs.
func Debug(msg string, args ...any) {
	current().Debug(msg, args...)
}

// Info logs at INFO level with alternating key-value pairs.
func Info(msg string, args ...any) {
	current().Info(msg, args...)
}

// Warn logs at WARN level with alternating key-value pairs.
func Warn(msg string, args ...any) {
	current().Warn(msg, args...)
}

// Error logs at ERROR level with alternating key-value pairs.
func Error(msg string, args ...any) {
	current().Error(msg, args...)
}
