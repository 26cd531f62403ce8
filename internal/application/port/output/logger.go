package output

// LoggerPort is a structured logger. args are alternating key/value pairs,
// e.g. Info("Agent replied", "traceSteps", 3).
type LoggerPort interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	// DebugEnabled lets callers skip building costly debug fields.
	DebugEnabled() bool

	WithField(key string, value any) LoggerPort
	WithFields(fields map[string]any) LoggerPort

	Close() error
}
