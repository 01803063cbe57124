package gitversioning

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// MessageLog prints each distinct info or warning message at most once per
// process, no matter how many resolutions emit it. When debug logging is
// enabled every message is printed. A nil *MessageLog discards everything.
type MessageLog struct {
	logger *zap.Logger
	seen   sync.Map
}

// NewMessageLog wraps logger. A nil logger is replaced by zap.NewNop.
func NewMessageLog(logger *zap.Logger) *MessageLog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MessageLog{logger: logger}
}

// NewProductionMessageLog builds a console logger writing to stderr.
func NewProductionMessageLog(verbose bool) (*MessageLog, error) {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.DisableStacktrace = true
	cfg.DisableCaller = true
	cfg.EncoderConfig.TimeKey = ""

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return NewMessageLog(logger), nil
}

// Logger returns the underlying zap logger.
func (l *MessageLog) Logger() *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l.logger
}

// Debug logs msg every time.
func (l *MessageLog) Debug(msg string, fields ...zap.Field) {
	if l == nil {
		return
	}
	l.logger.Debug(msg, fields...)
}

// Info logs msg unless it has been logged before.
func (l *MessageLog) Info(msg string, fields ...zap.Field) {
	if l.first(msg) {
		l.logger.Info(msg, fields...)
	}
}

// Warn logs msg unless it has been logged before.
func (l *MessageLog) Warn(msg string, fields ...zap.Field) {
	if l.first(msg) {
		l.logger.Warn(msg, fields...)
	}
}

// Sync flushes the underlying logger.
func (l *MessageLog) Sync() error {
	if l == nil {
		return nil
	}
	return l.logger.Sync()
}

func (l *MessageLog) first(msg string) bool {
	if l == nil {
		return false
	}
	if l.logger.Core().Enabled(zapcore.DebugLevel) {
		return true
	}
	_, loaded := l.seen.LoadOrStore(msg, struct{}{})
	return !loaded
}
