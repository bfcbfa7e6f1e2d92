package routing

import (
	"context"

	"github.com/charmbracelet/log"
)

// ctxKey is the type for context keys used in this package.
type ctxKey int

const loggerKey ctxKey = 0

// WithLogger returns a new context with the given logger attached. The
// server and CLI attach a request-scoped logger before resolving.
func WithLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// LoggerFrom retrieves the logger from ctx, falling back to log.Default()
// so resolution always has a valid logger.
func LoggerFrom(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
