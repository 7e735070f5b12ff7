// Package logger wraps zerolog.Logger with the constructors and context
// helpers used by jobsync.
//
// Logger embeds zerolog.Logger, so the full zerolog API is available on
// *Logger. Pass *Logger by pointer; use FromContext to recover a logger that
// was attached with WithContext.
package logger

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger is a thin wrapper around zerolog.Logger.
type Logger struct {
	zerolog.Logger
}

// NewLogger creates a JSON logger writing to os.Stderr that tags every entry
// with a "role" field and a timestamp.
func NewLogger(role string, level string) *Logger {
	return New(os.Stderr, role, level)
}

// New creates a logger writing to w. Unknown levels fall back to info.
func New(w io.Writer, role string, level string) *Logger {
	l := zerolog.New(w).
		Level(ParseLevel(level)).
		With().
		Str("role", role).
		Timestamp().
		Logger()

	return &Logger{l}
}

// ParseLevel maps a config string to a zerolog level.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Nop returns a *Logger that discards all output.
// Intended for tests.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// With returns a child logger carrying an extra string field.
func (l *Logger) With(key, value string) *Logger {
	return &Logger{l.Logger.With().Str(key, value).Logger()}
}

// WithContext attaches l to ctx.
func (l *Logger) WithContext(ctx context.Context) context.Context {
	return l.Logger.WithContext(ctx)
}

// FromContext returns the logger attached to ctx. When none is attached the
// returned logger discards output.
func FromContext(ctx context.Context) *Logger {
	zl := zerolog.Ctx(ctx)
	if zl == zerolog.DefaultContextLogger || zl.GetLevel() == zerolog.Disabled {
		return Nop()
	}
	return &Logger{*zl}
}
