// Convena - Community Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/convena

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Context keys for logging.
type contextKey string

const (
	// runIDKey is the context key for analysis run ids.
	runIDKey contextKey = "run_id"

	// loggerKey is the context key for storing a logger instance.
	loggerKey contextKey = "logger"
)

// GenerateRunID creates a new unique analysis run id.
// Returns the first 8 characters of a UUID for readability in log output.
func GenerateRunID() string {
	return uuid.New().String()[:8]
}

// ContextWithRunID returns a new context with the given analysis run id.
//
//	ctx = logging.ContextWithRunID(ctx, logging.GenerateRunID())
func ContextWithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// ContextWithNewRunID returns a context with a newly generated run id.
func ContextWithNewRunID(ctx context.Context) context.Context {
	return ContextWithRunID(ctx, GenerateRunID())
}

// RunIDFromContext retrieves the analysis run id from context.
// Returns empty string if not present.
func RunIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey).(string); ok {
		return id
	}
	return ""
}

// ContextWithLogger stores a logger in the context.
// This is useful for passing pre-configured loggers into the pipeline.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func ContextWithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext retrieves a logger from context.
// Returns the global logger if no logger is stored in context.
func LoggerFromContext(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(loggerKey).(zerolog.Logger); ok {
		return logger
	}
	return Logger()
}

// Ctx returns a logger with the analysis run id automatically added.
// This is the recommended way to log inside pipeline stages.
//
//	logging.Ctx(ctx).Info().Msg("Aggregation complete")
//	// Output: {"level":"info","run_id":"abc12345","message":"Aggregation complete"}
func Ctx(ctx context.Context) *zerolog.Logger {
	logger := LoggerFromContext(ctx)

	contextLogger := logger.With().Logger()
	if runID := RunIDFromContext(ctx); runID != "" {
		contextLogger = contextLogger.With().Str("run_id", runID).Logger()
	}

	return &contextLogger
}

// WithComponent creates a child logger with a component field.
// Use this to create component-specific loggers.
//
//	trainLogger := logging.WithComponent("classifier")
//	trainLogger.Info().Msg("Training started")
func WithComponent(component string) zerolog.Logger {
	return With().Str("component", component).Logger()
}
