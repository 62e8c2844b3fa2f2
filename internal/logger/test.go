package logger

import (
	"fmt"
	"strings"
	"testing"

	"github.com/arloliu/elector/types"
)

// TestLogger implements types.Logger on top of testing.TB so session logs
// are interleaved with test output and attributed to the right test.
type TestLogger struct {
	tb     testing.TB
	prefix string
}

// Compile-time assertion that TestLogger implements Logger.
var _ types.Logger = (*TestLogger)(nil)

// NewTest creates a new test logger that writes through tb.Logf.
//
// Parameters:
//   - tb: The test or benchmark to log to
//   - prefix: Optional tag printed before each line (e.g. "session-2")
//
// Example:
//
//	func TestSomething(t *testing.T) {
//	    log := logger.NewTest(t, "s1")
//	    log.Info("registered", "candidateId", "p_0000000003")
//	}
func NewTest(tb testing.TB, prefix string) *TestLogger {
	return &TestLogger{tb: tb, prefix: prefix}
}

// Debug logs a debug-level message with optional key-value pairs.
func (l *TestLogger) Debug(msg string, keysAndValues ...any) {
	l.log("DEBUG", msg, keysAndValues)
}

// Info logs an info-level message with optional key-value pairs.
func (l *TestLogger) Info(msg string, keysAndValues ...any) {
	l.log("INFO", msg, keysAndValues)
}

// Warn logs a warning-level message with optional key-value pairs.
func (l *TestLogger) Warn(msg string, keysAndValues ...any) {
	l.log("WARN", msg, keysAndValues)
}

// Error logs an error-level message with optional key-value pairs.
func (l *TestLogger) Error(msg string, keysAndValues ...any) {
	l.log("ERROR", msg, keysAndValues)
}

// Fatal logs a fatal-level message and fails the test.
func (l *TestLogger) Fatal(msg string, keysAndValues ...any) {
	l.tb.Helper()
	l.tb.Fatalf("FATAL: %s%s %s", l.tag(), msg, FormatKeyValues(keysAndValues))
}

func (l *TestLogger) log(level, msg string, keysAndValues []any) {
	l.tb.Helper()
	l.tb.Logf("%s: %s%s %s", level, l.tag(), msg, FormatKeyValues(keysAndValues))
}

func (l *TestLogger) tag() string {
	if l.prefix == "" {
		return ""
	}

	return "[" + l.prefix + "] "
}

// FormatKeyValues renders alternating key-value pairs as "k=v" tokens.
// A trailing key without a value is rendered as "k=<missing>".
func FormatKeyValues(keysAndValues []any) string {
	if len(keysAndValues) == 0 {
		return ""
	}

	var b strings.Builder
	for i := 0; i < len(keysAndValues); i += 2 {
		if i > 0 {
			b.WriteByte(' ')
		}
		if i+1 < len(keysAndValues) {
			fmt.Fprintf(&b, "%v=%v", keysAndValues[i], keysAndValues[i+1])
		} else {
			fmt.Fprintf(&b, "%v=<missing>", keysAndValues[i])
		}
	}

	return b.String()
}
