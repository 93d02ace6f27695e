// Package logging provides the leveled message sink used across this module for observability.
// It is never consulted for control flow: every Logger call here is a side effect only, modeled
// after the way viam-server's own logging package wraps zap with a small, stable Logger interface.
package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is a logging severity, ordered least to most severe.
type Level int

// The four levels the core ever logs at.
const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARNING"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case DEBUG:
		return zapcore.DebugLevel
	case INFO:
		return zapcore.InfoLevel
	case WARN:
		return zapcore.WarnLevel
	case ERROR:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Logger is the leveled message sink consumed by the mapper for observability. Nothing in this
// module inspects a Logger's output or return value to make decisions.
type Logger interface {
	Debugf(template string, args ...interface{})
	Debugw(msg string, keysAndValues ...interface{})
	Infof(template string, args ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warnf(template string, args ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Errorf(template string, args ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
	// Named returns a sub-logger whose messages are tagged with the given name.
	Named(name string) Logger
}

type zapLogger struct {
	*zap.SugaredLogger
}

// NewLogger returns a Logger that writes Info+ logs to stdout.
func NewLogger(name string) Logger {
	return newLogger(name, zap.NewAtomicLevelAt(zapcore.InfoLevel))
}

// NewDebugLogger returns a Logger that writes Debug+ logs to stdout.
func NewDebugLogger(name string) Logger {
	return newLogger(name, zap.NewAtomicLevelAt(zapcore.DebugLevel))
}

// NewTestLogger returns a Logger suitable for use in tests: Debug+ to stdout, tagged with the
// test's name.
func NewTestLogger(tb testing.TB) Logger {
	return newLogger(tb.Name(), zap.NewAtomicLevelAt(zapcore.DebugLevel))
}

func newLogger(name string, level zap.AtomicLevel) Logger {
	cfg := zap.Config{
		Level:    level,
		Encoding: "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			MessageKey:     "msg",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalColorLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		DisableStacktrace: true,
		OutputPaths:       []string{"stdout"},
		ErrorOutputPaths:  []string{"stderr"},
	}
	base := zap.Must(cfg.Build())
	return &zapLogger{base.Sugar().Named(name)}
}

func (l *zapLogger) Named(name string) Logger {
	return &zapLogger{l.SugaredLogger.Named(name)}
}
