// pattern: Imperative Shell

package asyncstatus

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventLog appends one human-readable line per protocol event:
//
//	[14:03:27.512] worker created lock
//
// Any invocation may append; lines from concurrent processes interleave whole.
type EventLog struct {
	file *os.File
	zap  *zap.Logger
}

// OpenEventLog opens path for appending, creating it if needed.
func OpenEventLog(path string) (*EventLog, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}

	encoderCfg := zapcore.EncoderConfig{
		TimeKey:          "ts",
		MessageKey:       "msg",
		EncodeTime:       encodeEventTime,
		ConsoleSeparator: " ",
		LineEnding:       zapcore.DefaultLineEnding,
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.AddSync(f),
		zapcore.DebugLevel,
	)

	return &EventLog{file: f, zap: zap.New(core)}, nil
}

func encodeEventTime(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("[15:04:05.000]"))
}

// Log appends msg.
func (l *EventLog) Log(msg string) {
	l.zap.Info(msg)
}

// Logf appends a formatted message.
func (l *EventLog) Logf(format string, args ...any) {
	l.zap.Info(fmt.Sprintf(format, args...))
}

// Close flushes and closes the file.
func (l *EventLog) Close() error {
	_ = l.zap.Sync()
	return l.file.Close()
}
