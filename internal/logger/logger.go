// Package logger is the structured logging facade used by the harness. Everything
// it writes goes to stderr next to the verdict text, so the default logger is Nop.
package logger

import (
	"context"
	"io"

	"github.com/rs/zerolog"
)

// Field represents a key-value pair for structured logging.
type Field struct {
	Key   string
	Value any
}

// Attr creates a Field with the given key and value.
func Attr(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Err creates a Field for an error under the "err_msg" key.
func Err(err error) Field {
	var errMsg string
	if err != nil {
		errMsg = err.Error()
	}
	return Field{Key: "err_msg", Value: errMsg}
}

// Logger is an interface for logging that supports Info, Debug, and Error operations.
type Logger interface {
	Info(ctx context.Context, msg string, fields ...Field)
	Debug(ctx context.Context, msg string, fields ...Field)
	Error(ctx context.Context, msg string, fields ...Field)
}

// NewConsole returns a human-readable zerolog logger writing to w. Debug records are
// only emitted when debug is set.
func NewConsole(w io.Writer, debug bool) Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zl := zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).
		Level(level).
		With().
		Timestamp().
		Str("component", "run-test").
		Logger()
	return NewFromZerolog(&zl)
}

// NewFromZerolog wraps a zerolog.Logger to satisfy the Logger interface.
func NewFromZerolog(zl *zerolog.Logger) Logger {
	return &zerologAdapter{zl: zl}
}

type zerologAdapter struct {
	zl *zerolog.Logger
}

func (z *zerologAdapter) Info(ctx context.Context, msg string, fields ...Field) {
	emit(z.zl.Info().Ctx(ctx), msg, fields)
}

func (z *zerologAdapter) Debug(ctx context.Context, msg string, fields ...Field) {
	emit(z.zl.Debug().Ctx(ctx), msg, fields)
}

func (z *zerologAdapter) Error(ctx context.Context, msg string, fields ...Field) {
	emit(z.zl.Error().Ctx(ctx), msg, fields)
}

func emit(e *zerolog.Event, msg string, fields []Field) {
	for _, f := range fields {
		e = e.Any(f.Key, f.Value)
	}
	e.Msg(msg)
}

// Nop returns a no-op logger that discards all output.
func Nop() Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Info(context.Context, string, ...Field)  {}
func (nopLogger) Debug(context.Context, string, ...Field) {}
func (nopLogger) Error(context.Context, string, ...Field) {}
