package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Level controls the minimum severity that gets emitted.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Field is a single structured log field.
type Field struct {
	Key   string
	Value interface{}
}

// WithField attaches one key/value pair to a log entry.
func WithField(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// WithFields attaches multiple key/value pairs to a log entry.
func WithFields(fields map[string]interface{}) Field {
	return Field{Value: fields}
}

// Logger is a leveled structured logger backed by zerolog.
type Logger struct {
	zl zerolog.Logger
}

// New creates a logger writing JSON lines to stdout.
func New(level Level) *Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	zl := zerolog.New(os.Stdout).Level(toZerolog(level)).With().Timestamp().Logger()
	return &Logger{zl: zl}
}

// NewDiscard creates a logger that drops everything. Used in tests.
func NewDiscard() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

func toZerolog(level Level) zerolog.Level {
	switch level {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// With returns a child logger that carries the fields on every entry.
func (l *Logger) With(fields ...Field) *Logger {
	ctx := l.zl.With()
	for _, f := range fields {
		if f.Key == "" {
			if m, ok := f.Value.(map[string]interface{}); ok {
				for k, v := range m {
					ctx = ctx.Interface(k, v)
				}
				continue
			}
		}
		ctx = ctx.Interface(f.Key, f.Value)
	}
	return &Logger{zl: ctx.Logger()}
}

func (l *Logger) Debug(msg string, fields ...Field) {
	emit(l.zl.Debug(), msg, fields)
}

func (l *Logger) Info(msg string, fields ...Field) {
	emit(l.zl.Info(), msg, fields)
}

func (l *Logger) Warn(msg string, fields ...Field) {
	emit(l.zl.Warn(), msg, fields)
}

func (l *Logger) Error(msg string, fields ...Field) {
	emit(l.zl.Error(), msg, fields)
}

func emit(ev *zerolog.Event, msg string, fields []Field) {
	for _, f := range fields {
		if f.Key == "" {
			if m, ok := f.Value.(map[string]interface{}); ok {
				for k, v := range m {
					ev = ev.Interface(k, v)
				}
				continue
			}
		}
		ev = ev.Interface(f.Key, f.Value)
	}
	ev.Msg(msg)
}
