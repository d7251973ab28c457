// Package logger exposes the minimal structured logging interface the module
// components report through, leaving the choice of the logging backend to the
// application (see the zaplogger package for a zap-backed adapter).
package logger

// Field is a single structured entry attached to a log line.
type Field struct {
	Key   string
	Value any
}

// With builds a Field out of the given key-value pair.
func With(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Logger reports structured information about the execution of a component.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// Debug logs through l at debug level. A nil l drops the message.
func Debug(l Logger, msg string, fields ...Field) {
	if l == nil {
		return
	}

	l.Debug(msg, fields...)
}

// Info logs through l at info level. A nil l drops the message.
func Info(l Logger, msg string, fields ...Field) {
	if l == nil {
		return
	}

	l.Info(msg, fields...)
}

// Error logs through l at error level. A nil l drops the message.
func Error(l Logger, msg string, fields ...Field) {
	if l == nil {
		return
	}

	l.Error(msg, fields...)
}
