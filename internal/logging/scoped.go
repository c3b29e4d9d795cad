// pattern: Imperative Shell

package logging

import (
	"context"
	"log/slog"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ScopedLogger provides a logger with scope context and additional field support.
// This is the public interface returned by Manager.For().
type ScopedLogger struct {
	slog  *slog.Logger
	zap   *zap.Logger
	scope string
}

func newScopedLogger(z *zap.Logger, level zapcore.Level, scope string) *ScopedLogger {
	return &ScopedLogger{
		slog:  slog.New(&zapSlogHandler{zap: z, level: level}),
		zap:   z,
		scope: scope,
	}
}

// NopLogger returns a logger that discards all output.
// Use in tests or when logging is not configured.
func NopLogger() *ScopedLogger {
	return &ScopedLogger{}
}

// Info logs at INFO level.
func (l *ScopedLogger) Info(msg string, args ...any) {
	if l.slog != nil {
		l.slog.Info(msg, args...)
	}
}

// Debug logs at DEBUG level.
func (l *ScopedLogger) Debug(msg string, args ...any) {
	if l.slog != nil {
		l.slog.Debug(msg, args...)
	}
}

// Warn logs at WARN level.
func (l *ScopedLogger) Warn(msg string, args ...any) {
	if l.slog != nil {
		l.slog.Warn(msg, args...)
	}
}

// Error logs at ERROR level.
func (l *ScopedLogger) Error(msg string, args ...any) {
	if l.slog != nil {
		l.slog.Error(msg, args...)
	}
}

// With returns a new ScopedLogger with the given key-value pairs added to all log entries.
func (l *ScopedLogger) With(args ...any) *ScopedLogger {
	if l.slog == nil {
		return l
	}
	return &ScopedLogger{
		slog:  l.slog.With(args...),
		zap:   l.zap,
		scope: l.scope,
	}
}

// Scope returns the logger's hierarchical scope.
func (l *ScopedLogger) Scope() string {
	return l.scope
}

// zapSlogHandler adapts zap.Logger to slog.Handler interface.
type zapSlogHandler struct {
	zap   *zap.Logger
	level zapcore.Level
	attrs []slog.Attr
}

func (h *zapSlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return slogToZapLevel(level) >= h.level
}

func (h *zapSlogHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]zap.Field, 0, r.NumAttrs()+len(h.attrs))
	for _, attr := range h.attrs {
		fields = append(fields, zap.Any(attr.Key, attr.Value.Any()))
	}
	r.Attrs(func(attr slog.Attr) bool {
		fields = append(fields, zap.Any(attr.Key, attr.Value.Any()))
		return true
	})

	if ce := h.zap.Check(slogToZapLevel(r.Level), r.Message); ce != nil {
		ce.Write(fields...)
	}
	return nil
}

func (h *zapSlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	copy(newAttrs[len(h.attrs):], attrs)
	return &zapSlogHandler{
		zap:   h.zap,
		level: h.level,
		attrs: newAttrs,
	}
}

func (h *zapSlogHandler) WithGroup(name string) slog.Handler {
	return &zapSlogHandler{
		zap:   h.zap.Named(name),
		level: h.level,
		attrs: h.attrs,
	}
}

func slogToZapLevel(level slog.Level) zapcore.Level {
	switch {
	case level >= slog.LevelError:
		return zapcore.ErrorLevel
	case level >= slog.LevelWarn:
		return zapcore.WarnLevel
	case level >= slog.LevelInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}
