// pattern: Imperative Shell

package logging

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// TestLogManager provides a LoggerProvider suitable for tests.
// Entries are kept in memory for verification instead of being written to a file.
type TestLogManager struct {
	baseZap  *zap.Logger
	observed *observer.ObservedLogs
	loggers  map[string]*ScopedLogger
	mu       sync.RWMutex
}

// NewTestLogManager creates a TestLogManager that records every level.
func NewTestLogManager() *TestLogManager {
	core, observed := observer.New(zapcore.DebugLevel)
	return &TestLogManager{
		baseZap:  zap.New(core),
		observed: observed,
		loggers:  make(map[string]*ScopedLogger),
	}
}

// For returns a scoped logger for the given scope name.
// Named For() to match the production Manager API.
func (m *TestLogManager) For(scope string) *ScopedLogger {
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

	logger := newScopedLogger(m.baseZap.Named(scope), zapcore.DebugLevel, scope)
	m.loggers[scope] = logger
	return logger
}

// Entries returns every entry logged so far.
func (m *TestLogManager) Entries() []observer.LoggedEntry {
	return m.observed.All()
}

// Count returns how many entries carry exactly the given message.
func (m *TestLogManager) Count(msg string) int {
	return m.observed.FilterMessage(msg).Len()
}
