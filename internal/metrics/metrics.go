// Convena - Community Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/convena

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus Metrics Integration for Production Observability
// This package provides instrumentation for:
// - Database query performance (DuckDB)
// - Analysis pipeline runs and outcomes
// - Model training duration and final loss
// - CSV export volume

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets, // 0.005s, 0.01s, 0.025s, 0.05s, 0.1s, 0.25s, 0.5s, 1s, 2.5s, 5s, 10s
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	DBConnectionPoolSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "duckdb_connection_pool_size",
			Help: "Current number of database connections in use",
		},
	)

	DBRowsSeeded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_rows_seeded_total",
			Help: "Total number of demo rows inserted during seeding",
		},
		[]string{"table"},
	)

	// Analysis Pipeline Metrics
	AnalysisRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_runs_total",
			Help: "Total number of analysis pipeline runs",
		},
		[]string{"status"}, // "success", "data_unavailable", "insufficient_members", "insufficient_activity", "training_failure", "other"
	)

	AnalysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "analysis_duration_seconds",
			Help:    "Duration of full analysis pipeline runs in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}, // Large orgs can take a while
		},
	)

	AnalysisFeatureRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "analysis_feature_records",
			Help: "Number of feature records built by the most recent analysis run",
		},
	)

	AnalysisActiveUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "analysis_active_users",
			Help: "Number of active users covered by the most recent analysis run",
		},
	)

	AnalysisLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "analysis_last_success_timestamp",
			Help: "Unix timestamp of last successful analysis run",
		},
	)

	// Model Training Metrics
	TrainingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "training_duration_seconds",
			Help:    "Duration of model training in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"model"}, // "classifier", "clustering"
	)

	TrainingFinalLoss = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "training_final_loss",
			Help: "Final training loss (binary cross-entropy for classifier, inertia for clustering)",
		},
		[]string{"model"},
	)

	// Export Metrics
	ExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "export_runs_total",
			Help: "Total number of CSV export runs",
		},
		[]string{"status"}, // "success", "failure"
	)

	ExportRows = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "export_rows",
			Help:    "Number of feature rows written per CSV export",
			Buckets: []float64{10, 50, 100, 250, 500, 1000, 5000, 10000},
		},
	)

	ExportBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "export_bytes_total",
			Help: "Total number of CSV bytes written by exports",
		},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordSeededRows records demo rows inserted into a table during seeding
func RecordSeededRows(table string, rows int) {
	DBRowsSeeded.WithLabelValues(table).Add(float64(rows))
}

// RecordAnalysisRun records a full analysis pipeline run and its outcome
func RecordAnalysisRun(duration time.Duration, err error) {
	AnalysisDuration.Observe(duration.Seconds())
	if err != nil {
		status := "other"
		// Categorize by the taxonomy's leading message text
		errorMsg := err.Error()
		if len(errorMsg) > 0 {
			switch {
			case hasPrefix(errorMsg, "no events"):
				status = "data_unavailable"
			case hasPrefix(errorMsg, "no active members"):
				status = "insufficient_members"
			case hasPrefix(errorMsg, "insufficient activity"):
				status = "insufficient_activity"
			case hasPrefix(errorMsg, "training failed"):
				status = "training_failure"
			}
		}
		AnalysisRunsTotal.WithLabelValues(status).Inc()
		return
	}
	AnalysisRunsTotal.WithLabelValues("success").Inc()
	AnalysisLastSuccess.Set(float64(time.Now().Unix()))
}

// SetAnalysisVolume updates the feature-record and active-user gauges after a
// successful analysis run
func SetAnalysisVolume(featureRecords, activeUsers int) {
	AnalysisFeatureRecords.Set(float64(featureRecords))
	AnalysisActiveUsers.Set(float64(activeUsers))
}

// RecordTraining records a single model training pass
func RecordTraining(model string, duration time.Duration, finalLoss float64) {
	TrainingDuration.WithLabelValues(model).Observe(duration.Seconds())
	TrainingFinalLoss.WithLabelValues(model).Set(finalLoss)
}

// RecordExport records a CSV export run
func RecordExport(rows, bytes int, err error) {
	if err != nil {
		ExportsTotal.WithLabelValues("failure").Inc()
		return
	}
	ExportsTotal.WithLabelValues("success").Inc()
	ExportRows.Observe(float64(rows))
	ExportBytes.Add(float64(bytes))
}

// Helper function to check if a string starts with a prefix
func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}
