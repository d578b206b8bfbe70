// Package logging defines the minimal structured-logging interface used
// across the app. The TUI owns the terminal, so the production logger writes
// to a rotating file instead of stderr.
package logging

import "context"

// Logger is a context-aware, structured logger. Variadic args are key–value
// pairs, e.g.:
//
//	log.Info(ctx, "entry saved", "id", id, "words", n)
type Logger interface {
	// Debug logs fine-grained diagnostic detail.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs a failure.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}
