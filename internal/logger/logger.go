package logger

import (
	"context"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a leveled logger with printf-style methods, built on zap.
// Prefixes and fields produce new loggers; the receiver is never mutated.
type Logger struct {
	sugar *zap.SugaredLogger
}

// ParseLevel parses a string into a zap level, defaulting to info.
func ParseLevel(s string) zapcore.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return zapcore.DebugLevel
	case "INFO":
		return zapcore.InfoLevel
	case "WARN", "WARNING":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Option configures a Logger.
type Option func(*options)

type options struct {
	level  zapcore.Level
	json   bool
	colors bool
}

// WithLevel sets the minimum log level.
func WithLevel(level zapcore.Level) Option {
	return func(o *options) { o.level = level }
}

// WithJSON switches output to JSON encoding (console otherwise).
func WithJSON(enabled bool) Option {
	return func(o *options) { o.json = enabled }
}

// WithColors enables colorized level names in console output.
func WithColors(enabled bool) Option {
	return func(o *options) { o.colors = enabled }
}

// New creates a new Logger writing to stdout.
func New(opts ...Option) *Logger {
	o := options{level: zapcore.InfoLevel, colors: true}
	for _, opt := range opts {
		opt(&o)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	encCfg.EncodeCaller = zapcore.ShortCallerEncoder
	if o.colors && !o.json {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	var enc zapcore.Encoder
	if o.json {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, zapcore.Lock(os.Stdout), zap.NewAtomicLevelAt(o.level))
	z := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))

	return &Logger{sugar: z.Sugar()}
}

var defaultLogger = New()

// SetDefault sets the default logger.
func SetDefault(l *Logger) {
	defaultLogger = l
}

// Default returns the default logger.
func Default() *Logger {
	return defaultLogger
}

// WithField returns a new logger with the given field added.
func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{sugar: l.sugar.With(key, value)}
}

// WithFields returns a new logger with the given fields added.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return &Logger{sugar: l.sugar.With(args...)}
}

// WithPrefix returns a new logger whose messages carry the given
// subsystem name.
func (l *Logger) WithPrefix(prefix string) *Logger {
	return &Logger{sugar: l.sugar.Named(prefix)}
}

// Sync flushes buffered log entries.
func (l *Logger) Sync() {
	_ = l.sugar.Sync()
}

// Debug logs a message at DEBUG level.
func (l *Logger) Debug(msg string, args ...any) { l.sugar.Debugf(msg, args...) }

// Info logs a message at INFO level.
func (l *Logger) Info(msg string, args ...any) { l.sugar.Infof(msg, args...) }

// Warn logs a message at WARN level.
func (l *Logger) Warn(msg string, args ...any) { l.sugar.Warnf(msg, args...) }

// Error logs a message at ERROR level.
func (l *Logger) Error(msg string, args ...any) { l.sugar.Errorf(msg, args...) }

// Package-level functions that use the default logger.

func Debug(msg string, args ...any) { defaultLogger.Debug(msg, args...) }
func Info(msg string, args ...any)  { defaultLogger.Info(msg, args...) }
func Warn(msg string, args ...any)  { defaultLogger.Warn(msg, args...) }
func Error(msg string, args ...any) { defaultLogger.Error(msg, args...) }

// Context key for request-scoped logger.
type ctxKey struct{}

// FromContext returns the logger from the context, or the default logger.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return defaultLogger
}

// NewContext returns a new context with the given logger.
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}
