// Convena - Community Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/convena

// Package logging provides centralized zerolog-based structured logging for Convena.
//
// This package implements a unified logging layer using zerolog, providing
// zero-allocation structured JSON logging for production and human-readable
// console output for development. All components log through this package so
// that every line carries the same shape and honours the same level filter.
//
// # Overview
//
// The package provides:
//   - Zero-allocation structured logging via zerolog
//   - JSON output format for production (machine-parseable)
//   - Console output format for development (human-readable)
//   - Global logger configuration guarded by sync.RWMutex
//   - Context propagation of per-run analysis identifiers
//   - Component child loggers with a fixed "component" field
//
// # Quick Start
//
//	import "github.com/tomtom215/convena/internal/logging"
//
//	// Initialize at application startup
//	logging.Init(logging.Config{
//	    Level:     "info",
//	    Format:    "json",
//	    Caller:    false,
//	    Timestamp: true,
//	})
//
//	// Log messages with structured fields
//	logging.Info().Str("org_id", orgID).Msg("Analysis starting")
//	logging.Error().Err(err).Str("stage", "clustering").Msg("Training failed")
//
// # Configuration
//
// Logging is configured from the Logging section of the application config
// (LOG_LEVEL, LOG_FORMAT, LOG_CALLER environment variables through
// internal/config). Programmatic configuration:
//
//	logging.Init(logging.Config{
//	    Level:     "debug",    // trace, debug, info, warn, error, fatal
//	    Format:    "console",  // json or console
//	    Caller:    true,       // Include caller file:line
//	    Timestamp: true,       // Include timestamps
//	    Output:    os.Stderr,  // Output writer
//	})
//
// # Log Levels
//
// Supported log levels (from most to least verbose):
//
//	trace  - Very detailed diagnostic information
//	debug  - Detailed diagnostic information (skipped rows, query shapes)
//	info   - General operational information (default)
//	warn   - Warning conditions that should be addressed
//	error  - Error conditions requiring attention
//	fatal  - Fatal errors that terminate the program
//
// # Structured Logging Best Practices
//
// Always terminate log chains with .Msg() or .Send():
//
//	logging.Info().Str("key", "value").Msg("message")  // Correct
//	logging.Info().Str("key", "value")                 // WRONG - log not emitted
//
// Use structured fields instead of string formatting:
//
//	// Good - structured, searchable, efficient
//	logging.Info().
//	    Str("org_id", orgID).
//	    Int("active_users", users).
//	    Dur("elapsed", duration).
//	    Msg("Analysis complete")
//
//	// Avoid - unstructured, harder to parse
//	logging.Info().Msgf("Org %s analyzed %d users in %v", orgID, users, duration)
//
// # Component Loggers
//
// Create component-specific loggers with default fields:
//
//	engineLogger := logging.WithComponent("engagement")
//	engineLogger.Info().Msg("Training models")
//
// # Run Identifiers
//
// Every analysis run carries a UUID that ties its log lines, summary, and
// exports together. The context helpers propagate it:
//
//	ctx = logging.ContextWithNewRunID(ctx)
//	logging.Ctx(ctx).Info().Msg("Aggregation finished")
//	id := logging.RunIDFromContext(ctx)
//
// # Output Formats
//
// JSON Format (Production):
//
//	{"level":"info","time":"2026-03-01T10:30:00Z","message":"Analysis complete","org_id":"org-demo"}
//
// Console Format (Development):
//
//	10:30:00 INF Analysis complete org_id=org-demo
//
// # Thread Safety
//
// All exported functions are safe for concurrent use. The global logger
// is protected by sync.RWMutex for configuration changes.
//
// # Testing
//
// Create test loggers that capture output:
//
//	var buf bytes.Buffer
//	logger := logging.NewTestLogger(&buf)
//	logger.Info().Msg("test message")
//	output := buf.String()
//
// # See Also
//
//   - github.com/rs/zerolog: Underlying logging library
//   - internal/engagement: Analysis engine logging through child loggers
//   - internal/database: Store lifecycle and query logging
package logging
