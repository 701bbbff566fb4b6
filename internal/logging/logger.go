package logging

import (
	"fmt"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger provides a thin wrapper around logr.Logger with convenience helpers.
type Logger struct {
	log logr.Logger
}

// New returns a Logger based on the provided logr.Logger. When the base logger
// is uninitialized it falls back to the module default.
func New(base logr.Logger) Logger {
	if base.GetSink() == nil {
		base = DefaultLogger()
	}
	return Logger{log: base}
}

// DefaultLogger returns the module's default structured logger.
func DefaultLogger() logr.Logger {
	zapLogger, err := zap.NewDevelopment()
	if err != nil {
		zapLogger = zap.NewNop()
	}
	return zapr.NewLogger(zapLogger)
}

// Discard returns a Logger that drops everything. Unlike New(logr.Discard())
// it does not fall back to the default logger.
func Discard() Logger {
	return Logger{log: logr.Discard()}
}

// ForLevel builds a production zap logger writing to stderr at the given
// level (debug, info, warn, error). Debug maps to logr verbosity 1.
func ForLevel(level string) (logr.Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return logr.Logger{}, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapLogger, err := cfg.Build()
	if err != nil {
		return logr.Logger{}, fmt.Errorf("build zap logger: %w", err)
	}
	return zapr.NewLogger(zapLogger), nil
}

func parseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", level)
	}
}

// WithValues returns a new Logger with additional key-value pairs attached.
func (l Logger) WithValues(keysAndValues ...any) Logger {
	return Logger{log: l.log.WithValues(keysAndValues...)}
}

// WithName scopes the logger with the supplied name.
func (l Logger) WithName(name string) Logger {
	return Logger{log: l.log.WithName(name)}
}

// Info logs an informational message.
func (l Logger) Info(msg string, keysAndValues ...any) {
	l.log.Info(msg, keysAndValues...)
}

// Debug logs a verbose message when V(1) is enabled on the underlying logger.
func (l Logger) Debug(msg string, keysAndValues ...any) {
	if l.log.V(1).Enabled() {
		l.log.V(1).Info(msg, keysAndValues...)
	}
}

// Error logs an error message.
func (l Logger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error(err, msg, keysAndValues...)
}

// Logr exposes the underlying logr.Logger.
func (l Logger) Logr() logr.Logger {
	return l.log
}
