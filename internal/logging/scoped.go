package logging

import (
	"slices"

	"github.com/arloliu/elector/types"
)

// scopedLogger prepends a fixed set of fields to every log call.
type scopedLogger struct {
	base   types.Logger
	fields []any
}

var _ types.Logger = (*scopedLogger)(nil)

// With returns a logger that adds keysAndValues to every record written
// through base. Scoping an already scoped logger flattens the fields instead
// of nesting wrappers.
//
// Parameters:
//   - base: Logger to write to
//   - keysAndValues: Alternating key-value pairs, e.g. "electionPath", "/election"
//
// Returns:
//   - types.Logger: Scoped logger (base itself if no fields are given)
func With(base types.Logger, keysAndValues ...any) types.Logger {
	if len(keysAndValues) == 0 {
		return base
	}

	if s, ok := base.(*scopedLogger); ok {
		return &scopedLogger{base: s.base, fields: slices.Concat(s.fields, keysAndValues)}
	}

	return &scopedLogger{base: base, fields: slices.Clone(keysAndValues)}
}

func (l *scopedLogger) Debug(msg string, keysAndValues ...any) {
	l.base.Debug(msg, l.merge(keysAndValues)...)
}

func (l *scopedLogger) Info(msg string, keysAndValues ...any) {
	l.base.Info(msg, l.merge(keysAndValues)...)
}

func (l *scopedLogger) Warn(msg string, keysAndValues ...any) {
	l.base.Warn(msg, l.merge(keysAndValues)...)
}

func (l *scopedLogger) Error(msg string, keysAndValues ...any) {
	l.base.Error(msg, l.merge(keysAndValues)...)
}

func (l *scopedLogger) Fatal(msg string, keysAndValues ...any) {
	l.base.Fatal(msg, l.merge(keysAndValues)...)
}

func (l *scopedLogger) merge(keysAndValues []any) []any {
	return slices.Concat(l.fields, keysAndValues)
}
