// pattern: Imperative Shell

package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds configuration for the Manager.
type Config struct {
	FilePath   string // Path to log file
	MaxSizeMB  int    // Max size in MB before rotation
	MaxBackups int    // Max number of old log files to keep
	MaxAgeDays int    // Max days to keep old log files
	Level      string // Minimum log level (debug, info, warn, error)
}

// LoggerProvider is an interface for obtaining scoped loggers.
// Both Manager and TestLogManager implement this interface.
type LoggerProvider interface {
	For(scope string) *ScopedLogger
}

// Manager hands out scoped loggers that share one rotating log file.
type Manager struct {
	baseZap    *zap.Logger
	fileWriter *lumberjack.Logger
	loggers    map[string]*ScopedLogger
	mu         sync.RWMutex
	level      zapcore.Level
}

// NewManager creates a new log manager with the given configuration.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.FilePath == "" {
		return nil, fmt.Errorf("FilePath is required")
	}

	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = 5
	}
	if cfg.MaxBackups == 0 {
		cfg.MaxBackups = 2
	}
	if cfg.MaxAgeDays == 0 {
		cfg.MaxAgeDays = 7
	}

	level := ParseLevel(cfg.Level)

	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	fileWriter := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.LowercaseLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(fileWriter),
		level,
	)

	// Every process is short-lived; pid tells concurrent prompt draws apart.
	baseZap := zap.New(core).With(zap.Int("pid", os.Getpid()))

	return &Manager{
		baseZap:    baseZap,
		fileWriter: fileWriter,
		loggers:    make(map[string]*ScopedLogger),
		level:      level,
	}, nil
}

// For returns a logger for the given scope.
// Scopes are dotted (e.g., "asyncstatus", "gitstatus.compute").
// Loggers are cached and reused for the same scope.
func (m *Manager) For(scope string) *ScopedLogger {
	m.mu.RLock()
	if logger, ok := m.loggers[scope]; ok {
		m.mu.RUnlock()
		return logger
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	if logger, ok := m.loggers[scope]; ok {
		return logger
	}

	logger := newScopedLogger(m.baseZap.Named(scope), m.level, scope)
	m.loggers[scope] = logger
	return logger
}

// Sync flushes all buffered logs.
func (m *Manager) Sync() error {
	return m.baseZap.Sync()
}

// Close syncs and closes the log file.
func (m *Manager) Close() error {
	_ = m.Sync()
	return m.fileWriter.Close()
}

// ParseLevel maps a config level name to a zap level.
// Unknown or empty names fall back to warn.
func ParseLevel(name string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug", "trace":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}
