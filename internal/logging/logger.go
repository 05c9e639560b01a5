// Package logging defines the structured-logging boundary used by both the
// server and the CLI. Code logs through the Logger interface; the slog
// implementation is the only one wired today, but nothing outside this
// package depends on that.
package logging

import "context"

// Logger is a leveled, context-aware structured logger. The variadic args
// are alternating key-value pairs:
//
//	log.Info(ctx, "message stored", "project_id", projectID, "id", msg.ID)
type Logger interface {
	// Debug logs fine-grained diagnostic detail, usually disabled in production.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs normal operational events.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs unusual but tolerated conditions (failed acks, retries).
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs failures that need attention.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger whose records always carry the given
	// key-value pairs.
	With(args ...any) Logger
}
