package logging

// Logger is the emission surface handed to application code. Each method
// takes a primary message and optional supplementary values which are
// space-joined onto it. Option values (Suppress, At) may be mixed into the
// supplementary values and are never rendered.
type Logger interface {
	Debug(msg any, args ...any)
	Info(msg any, args ...any)
	Warn(msg any, args ...any)
	Error(msg any, args ...any)
	// Critical attaches the error chain and stack when an error is among args.
	Critical(msg any, args ...any)
	// Exception is Critical with the stack always attached.
	Exception(msg any, args ...any)
}

var _ Logger = (*Service)(nil)
