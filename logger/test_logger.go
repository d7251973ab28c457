package logger

import "testing"

var _ Logger = Test{}

// Test is a Logger implementation writing through a testing.T instance,
// so that log lines show up attached to the test that produced them.
type Test struct{ t *testing.T }

// NewTest returns a Logger reporting through the provided testing.T instance.
func NewTest(t *testing.T) Test {
	return Test{t: t}
}

// Debug implements logger.Logger.
func (l Test) Debug(msg string, fields ...Field) { l.logf("DEBUG", msg, fields) }

// Info implements logger.Logger.
func (l Test) Info(msg string, fields ...Field) { l.logf("INFO", msg, fields) }

// Error implements logger.Logger.
func (l Test) Error(msg string, fields ...Field) { l.logf("ERROR", msg, fields) }

func (l Test) logf(level, msg string, fields []Field) {
	l.t.Helper()
	l.t.Logf("%s %s %+v", level, msg, fields)
}
