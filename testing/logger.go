package testing

import (
	"testing"

	"github.com/arloliu/elector/internal/logger"
	"github.com/arloliu/elector/types"
)

// NewTestLogger creates a new logger instance that writes to the test log.
// This is useful for seeing session output during test runs.
//
// Parameters:
//   - tb: Test or benchmark handle
//   - name: Optional tag printed before every line (e.g., the session name)
func NewTestLogger(tb testing.TB, name string) types.Logger {
	return logger.NewTest(tb, name)
}
