package logger

import (
	"context"
)

type loggerKey struct{}

// NewContextWithLogger returns a new context with the logger attached to it.
// A logger already attached to ctx is kept.
func NewContextWithLogger(ctx context.Context, l ILogger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Value(loggerKey{}).(ILogger); ok || l == nil {
		return ctx
	}

	return context.WithValue(ctx, loggerKey{}, l)
}

// FromCtx returns the logger attached to ctx. If there is none, the installed logger is
// returned, or a logger that drops everything when nothing is installed yet.
//
//nolint:ireturn // Returns interface to hide implementation details
func FromCtx(ctx context.Context) ILogger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(ILogger); ok {
			return l
		}
	}
	return global.current()
}
