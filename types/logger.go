package types

// Logger defines methods for structured logging.
//
// The method set mirrors zap's sugared "w" methods (Infow, Warnw, ...); the
// internal logging package adapts zap and log/slog. All methods accept
// alternating key-value pairs for structured fields.
//
// Sessions scope their logger with the election path and, once registered,
// the candidate identifier, so implementations do not need to add them.
type Logger interface {
	// Debug logs a message at DebugLevel.
	Debug(msg string, keysAndValues ...any)

	// Info logs a message at InfoLevel.
	Info(msg string, keysAndValues ...any)

	// Warn logs a message at WarnLevel.
	Warn(msg string, keysAndValues ...any)

	// Error logs a message at ErrorLevel.
	Error(msg string, keysAndValues ...any)

	// Fatal logs a message at FatalLevel and terminates the process.
	//
	// The library itself never calls Fatal.
	Fatal(msg string, keysAndValues ...any)
}
