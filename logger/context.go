// Package logger carries a request-scoped slog.Logger through context.
package logger

import (
	"context"
	"log/slog"
)

type loggerKey struct{}

// AddToContext attaches a logger to the context.
func AddToContext(ctx context.Context, ctxLogger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, ctxLogger)
}

// GetFromContext returns the attached logger, falling back to the default.
func GetFromContext(ctx context.Context) *slog.Logger {
	ctxLogger, ok := ctx.Value(loggerKey{}).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return ctxLogger
}
