// Convena - Community Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/convena

/*
Package metrics provides Prometheus metrics collection for observability.

This package implements application instrumentation using the Prometheus
client library, exposing metrics for monitoring performance, errors, and
analysis outcomes.

# Overview

The package provides metrics for:
  - DuckDB query performance and errors
  - Analysis pipeline runs, classified by outcome
  - Model training duration and final loss per model
  - CSV export volume
  - Demo data seeding

# Available Metrics

Database metrics:
  - duckdb_query_duration_seconds: Query execution time (histogram)
    Labels: operation, table
  - duckdb_query_errors_total: Failed queries (counter)
    Labels: operation, table, error_type
  - duckdb_connection_pool_size: Connections in use (gauge)
  - duckdb_rows_seeded_total: Demo rows inserted (counter)
    Labels: table

Analysis metrics:
  - analysis_runs_total: Pipeline runs (counter)
    Labels: status (success, data_unavailable, insufficient_members,
    insufficient_activity, training_failure, other)
  - analysis_duration_seconds: Full pipeline duration (histogram)
  - analysis_feature_records: Feature records in the latest run (gauge)
  - analysis_active_users: Active users in the latest run (gauge)
  - analysis_last_success_timestamp: Unix timestamp of last success (gauge)

Training metrics:
  - training_duration_seconds: Per-model training time (histogram)
    Labels: model (classifier, clustering)
  - training_final_loss: Final loss after training (gauge)
    Labels: model

Export metrics:
  - export_runs_total: CSV export runs (counter)
    Labels: status (success, failure)
  - export_rows: Rows per export (histogram)
  - export_bytes_total: Bytes written (counter)

# Usage Example

Recording from the analysis engine:

	start := time.Now()
	err := session.TrainModels(ctx, nil)
	metrics.RecordAnalysisRun(time.Since(start), err)

Recording database queries:

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, orgID)
	metrics.RecordDBQuery("SELECT", "interaction_logs", time.Since(start), err)

Example PromQL queries:

	# Analysis failure rate
	sum(rate(analysis_runs_total{status!="success"}[1h]))
	/
	sum(rate(analysis_runs_total[1h]))

	# Classifier training p95 duration
	histogram_quantile(0.95, rate(training_duration_seconds_bucket{model="classifier"}[1h]))

	# Database query rate by table
	sum by (table) (rate(duckdb_query_duration_seconds_count[5m]))

# Thread Safety

All metric recording functions are thread-safe and designed for concurrent use
from multiple goroutines. The Prometheus client library handles synchronization
internally.

# Cardinality Management

To prevent high cardinality issues:

  - Analysis statuses are a closed set derived from the error taxonomy
  - Model and table labels come from fixed internal names
  - Organization and user identifiers are never used as labels
  - Database error types are truncated to 50 characters
*/
package metrics
