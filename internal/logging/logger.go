// Package logging is the structured logger readlist components depend on.
// The only implementation writes JSON through log/slog.
package logging

import "context"

// Logger takes key/value pairs after the message:
//
//	logger.Info(ctx, "http server listening", "addr", addr)
//
// Passwords and tokens must never be passed as values.
type Logger interface {
	// Debug is for detail such as why a token was rejected.
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that adds args to every record.
	With(args ...any) Logger
}
