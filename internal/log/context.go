package log

import (
	"context"
	"log/slog"
)

// ContextKey type for context keys
type ContextKey string

const (
	// LoggerContextKey is the context key for the logger
	LoggerContextKey ContextKey = "logger"
)

// WithContext returns a copy of ctx carrying logger.
func WithContext(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, LoggerContextKey, logger)
}

// FromContext extracts a logger from ctx
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*Logger); ok {
		return logger
	}
	return wrap(slog.Default(), "")
}

// WithRun returns ctx with a logger tagged with the run and request ids.
func WithRun(ctx context.Context, runID, requestID string) context.Context {
	logger := FromContext(ctx)
	if runID != "" {
		logger = logger.With(FieldRunID, runID)
	}
	if requestID != "" {
		logger = logger.With(FieldRequestID, requestID)
	}
	return WithContext(ctx, logger)
}
