// Convena - Community Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/convena

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/goccy/go-json"

	"github.com/tomtom215/convena/internal/config"
	"github.com/tomtom215/convena/internal/database"
	"github.com/tomtom215/convena/internal/engagement"
	"github.com/tomtom215/convena/internal/logging"
	"github.com/tomtom215/convena/internal/metrics"
)

// version is injected at build time via -ldflags "-X main.version=..."
var version = "dev"

const (
	reportFileName = "engagement_report.json"
	exportFileName = "engagement_export.csv"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize zerolog with configuration
	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().Str("version", version).Msg("Starting Convena engagement analysis")
	logging.Info().
		Str("org_id", cfg.Analytics.OrgID).
		Str("window", cfg.Analytics.Window).
		Str("db_path", cfg.Database.Path).
		Str("export_dir", cfg.Analytics.ExportDir).
		Bool("demo_seed", cfg.Demo.Seed).
		Msg("Configuration loaded")

	if err := run(context.Background(), cfg); err != nil {
		exitForError(err)
	}

	logging.Info().Msg("Analysis completed successfully")
}

// run owns the database lifecycle so its defer always fires; main decides the
// exit code after the deferred close has run.
func run(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	if cfg.Demo.Seed {
		logging.Info().Msg("Demo data seeding enabled (DEMO_SEED=true)")
		if err := db.SeedDemoData(ctx, cfg.Analytics.OrgID, &cfg.Demo); err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
	}

	window, err := analysisWindow(&cfg.Analytics)
	if err != nil {
		return err
	}

	session, err := engagement.NewSession(
		engagement.SessionConfig{
			LearningRate: cfg.Analytics.LearningRate,
			Seed:         cfg.Analytics.Seed,
		},
		engagement.AnalysisRequest{
			OrgID:  cfg.Analytics.OrgID,
			Window: window,
		},
		database.NewEngagementDataProvider(db),
		logging.Logger(),
	)
	if err != nil {
		return fmt.Errorf("create analysis session: %w", err)
	}

	if err := session.TrainModels(ctx, progressReporter()); err != nil {
		return err
	}

	return writeReports(session, cfg.Analytics.ExportDir)
}

// analysisWindow maps the configured window to the request type. The custom
// kind carries explicit RFC3339 bounds; the relative and all kinds resolve at
// analysis time.
func analysisWindow(cfg *config.AnalyticsConfig) (engagement.Window, error) {
	window := engagement.Window{Kind: cfg.Window}
	if cfg.Window != engagement.WindowCustom {
		return window, nil
	}

	start, end, err := cfg.CustomWindow()
	if err != nil {
		return engagement.Window{}, err
	}
	window.Start = start
	window.End = end
	return window, nil
}

// progressReporter logs training progress at quarter marks per stage instead
// of all several hundred callbacks.
func progressReporter() engagement.ProgressCallback {
	lastStage := ""
	lastQuarter := -1

	return func(status engagement.TrainingStatus) {
		if status.Stage != lastStage {
			lastStage = status.Stage
			lastQuarter = -1
		}
		quarter := int(status.Fraction * 4)
		if quarter <= lastQuarter {
			return
		}
		lastQuarter = quarter

		logging.Info().
			Str("stage", status.Stage).
			Int("percent", int(status.Fraction*100)).
			Msg("Training progress")
	}
}

// analysisReport is the JSON document written after a successful run.
type analysisReport struct {
	Summary     engagement.Summary                 `json:"summary"`
	Thresholds  engagement.Thresholds              `json:"thresholds"`
	Predictions []engagement.UserPrediction        `json:"predictions"`
	Clusters    map[int][]engagement.ClusteredUser `json:"clusters"`
	Insights    map[int]engagement.ClusterInsight  `json:"insights"`
	Quality     engagement.DataQualityReport       `json:"quality"`
}

func writeReports(session *engagement.Session, exportDir string) error {
	if err := os.MkdirAll(exportDir, 0o750); err != nil {
		return fmt.Errorf("create export directory %s: %w", exportDir, err)
	}

	report := analysisReport{
		Summary:     session.Summary(),
		Thresholds:  session.DynamicThresholds(),
		Predictions: session.UserPredictions(),
		Clusters:    session.ClusteredUsers(),
		Insights:    session.ClusterInsights(),
		Quality:     session.DataQualityReport(),
	}

	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode analysis report: %w", err)
	}

	reportPath := filepath.Join(exportDir, reportFileName)
	if err := os.WriteFile(reportPath, payload, 0o600); err != nil {
		return fmt.Errorf("write analysis report: %w", err)
	}
	logging.Info().Str("path", reportPath).Int("bytes", len(payload)).Msg("Analysis report written")

	csvData := session.ExportCSV()
	exportPath := filepath.Join(exportDir, exportFileName)
	if err := os.WriteFile(exportPath, []byte(csvData), 0o600); err != nil {
		metrics.RecordExport(0, 0, err)
		return fmt.Errorf("write csv export: %w", err)
	}
	logging.Info().Str("path", exportPath).Int("bytes", len(csvData)).Msg("CSV export written")

	return nil
}

// exitForError maps the failure taxonomy to exit codes: 2 for not enough
// data (rerun with a longer window once the community grows), 3 for model
// training failures, 1 for everything operational.
func exitForError(err error) {
	var (
		dataErr     *engagement.DataUnavailableError
		memberErr   *engagement.InsufficientMembersError
		activityErr *engagement.InsufficientActivityError
		trainErr    *engagement.TrainingFailureError
	)

	switch {
	case errors.As(err, &dataErr), errors.As(err, &memberErr), errors.As(err, &activityErr):
		logging.Error().Err(err).Msg("Analysis skipped: not enough data")
		os.Exit(2)
	case errors.As(err, &trainErr):
		logging.Error().Err(err).Msg("Model training failed")
		os.Exit(3)
	default:
		logging.Error().Err(err).Msg("Analysis run failed")
		os.Exit(1)
	}
}
