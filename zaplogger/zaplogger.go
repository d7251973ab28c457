// Package zaplogger adapts go.uber.org/zap loggers to the logger.Logger
// interface used across go-rewind.
package zaplogger

import (
	"go.uber.org/zap"

	"github.com/rewindkit/go-rewind/logger"
)

var _ logger.Logger = Logger{}

// Logger forwards log messages to an underlying zap.Logger.
type Logger struct {
	zl *zap.Logger
}

// Wrap adapts the given zap.Logger for use wherever a logger.Logger
// is expected.
func Wrap(zl *zap.Logger) Logger {
	return Logger{zl: zl}
}

// Debug logs a message at debug level.
func (l Logger) Debug(msg string, fields ...logger.Field) {
	l.zl.Debug(msg, toZapFields(fields)...)
}

// Info logs a message at info level.
func (l Logger) Info(msg string, fields ...logger.Field) {
	l.zl.Info(msg, toZapFields(fields)...)
}

// Error logs a message at error level.
func (l Logger) Error(msg string, fields ...logger.Field) {
	l.zl.Error(msg, toZapFields(fields)...)
}

func toZapFields(fields []logger.Field) []zap.Field {
	zapFields := make([]zap.Field, 0, len(fields))

	for _, field := range fields {
		zapFields = append(zapFields, zap.Any(field.Key, field.Value))
	}

	return zapFields
}
