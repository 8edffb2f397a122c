// Convena - Community Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/convena

// Package database provides the DuckDB-backed data layer for Convena.
//
// # Overview
//
// This package owns the schema and query surface for the engagement data:
// event posts, the membership roster, RSVP records, and the append-only
// interaction log. It also implements the data provider interface consumed
// by the engagement analysis engine, so the engine itself never touches SQL.
//
// # Architecture
//
// The package is organized into domain-specific files:
//   - database.go: Connection lifecycle, pool configuration, checkpointing
//   - schema.go: Table and index creation
//   - engagement.go: Analysis queries and the EngagementDataProvider adapter
//   - seed.go: Deterministic demo data generation
//   - errors.go: Shared close helpers
//
// # Database Technology
//
// The package uses DuckDB as its analytics database:
//   - OLAP-optimized for the window-scan aggregation queries
//   - Single-file storage, no external server to run
//   - CGO-based driver (github.com/duckdb/duckdb-go/v2)
//
// # Usage
//
//	db, err := database.New(&cfg.Database)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	provider := database.NewEngagementDataProvider(db)
//	session, err := engagement.NewSession(sessionCfg, request, provider, logger)
//
// # Concurrency
//
// All exported methods are safe for concurrent use; the driver pools
// connections and every query runs under a context deadline.
//
// # Error Handling
//
// Errors are wrapped with fmt.Errorf and %w, naming the query that failed.
// Interaction rows whose action column does not parse are skipped at read
// time rather than surfaced as errors, so unknown kinds written by newer
// producers never break analysis.
package database
