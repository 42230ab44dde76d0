// Package logging provides structured logging for chessbench runs.
// It wraps Go's log/slog package to provide JSON-formatted logs suitable
// for post-hoc analysis of an experiment.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Log levels supported by the logger
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// Logger provides structured logging with persistent attributes.
// It is safe for concurrent use.
type Logger struct {
	logger *slog.Logger
	file   *os.File
	attrs  []slog.Attr
}

// NewLogger creates a Logger that writes JSON-formatted logs to the given
// file path, creating parent directories as needed. If path is empty, logs
// go to stderr.
//
// The level parameter controls which messages are logged:
//   - DEBUG: all messages
//   - INFO: Info, Warn, and Error messages
//   - WARN: Warn and Error messages
//   - ERROR: only Error messages
func NewLogger(path string, level string) (*Logger, error) {
	var writer io.Writer
	var file *os.File

	if path != "" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory: %w", err)
			}
		}
		var err error
		file, err = os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		writer = file
	} else {
		writer = os.Stderr
	}

	handler := slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level: parseLevel(level),
	})

	return &Logger{
		logger: slog.New(handler),
		file:   file,
		attrs:  make([]slog.Attr, 0),
	}, nil
}

// parseLevel converts a string log level to slog.Level.
// Defaults to INFO if the level string is not recognized.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithMethod returns a child Logger with the method name added to all
// log entries.
func (l *Logger) WithMethod(method string) *Logger {
	return l.withAttr(slog.String("method", method))
}

// WithPosition returns a child Logger with the position FEN added to all
// log entries.
func (l *Logger) WithPosition(fen string) *Logger {
	return l.withAttr(slog.String("position", fen))
}

// WithRound returns a child Logger with the protocol round added to all
// log entries.
func (l *Logger) WithRound(round int) *Logger {
	return l.withAttr(slog.Int("round", round))
}

// With returns a child Logger with arbitrary alternating key-value
// attributes.
func (l *Logger) With(args ...any) *Logger {
	attrs := make([]slog.Attr, 0, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		attrs = append(attrs, slog.Any(key, args[i+1]))
	}
	return l.withAttrs(attrs)
}

func (l *Logger) withAttr(attr slog.Attr) *Logger {
	return l.withAttrs([]slog.Attr{attr})
}

func (l *Logger) withAttrs(attrs []slog.Attr) *Logger {
	combined := make([]slog.Attr, 0, len(l.attrs)+len(attrs))
	combined = append(combined, l.attrs...)
	combined = append(combined, attrs...)

	args := make([]any, 0, len(attrs))
	for _, a := range attrs {
		args = append(args, a)
	}

	return &Logger{
		logger: l.logger.With(args...),
		file:   l.file,
		attrs:  combined,
	}
}

// Debug logs a debug message with optional key-value pairs.
func (l *Logger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

// Info logs an info message with optional key-value pairs.
func (l *Logger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

// Warn logs a warning message with optional key-value pairs.
func (l *Logger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

// Error logs an error message with optional key-value pairs.
func (l *Logger) Error(msg string, args ...any) {
	l.logger.Error(msg, args...)
}

// DebugContext logs a debug message with context.
func (l *Logger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.logger.DebugContext(ctx, msg, args...)
}

// Close closes the underlying log file, if any.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// Nop returns a logger that discards everything. Useful in tests.
func Nop() *Logger {
	return &Logger{
		logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
}
