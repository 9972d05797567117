package logging

import "context"

// nopLogger discards everything. Useful in tests that construct a component
// requiring a Logger but don't assert on log output.
type nopLogger struct{}

// Nop returns a Logger that discards all messages.
func Nop() Logger {
	return nopLogger{}
}

func (nopLogger) Info(ctx context.Context, msg string, args ...any)  {}
func (nopLogger) Warn(ctx context.Context, msg string, args ...any)  {}
func (nopLogger) Error(ctx context.Context, msg string, args ...any) {}
func (nopLogger) With(args ...any) Logger                            { return nopLogger{} }
