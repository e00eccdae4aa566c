package logging

import (
	"context"

	"github.com/rs/zerolog"
)

type loggerKey struct{}

// WithLogger returns ctx carrying logger. A nil logger means Default.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger carried by ctx, or Default.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey{}).(*zerolog.Logger); ok && logger != nil {
			return logger
		}
	}
	return Default()
}

// WithField returns ctx whose logger adds key to every event.
func WithField(ctx context.Context, key string, value any) context.Context {
	logger := FromContext(ctx).With().Interface(key, value).Logger()
	return WithLogger(ctx, &logger)
}

// WithOperation tags events with the command being run.
func WithOperation(ctx context.Context, operation string) context.Context {
	return WithField(ctx, "operation", operation)
}

// WithCard tags events with a card identifier.
func WithCard(ctx context.Context, id string) context.Context {
	return WithField(ctx, "card_id", id)
}
