// Convena - Community Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/convena

package engagement

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/convena/internal/engagement/algorithms"
	"github.com/tomtom215/convena/internal/logging"
	"github.com/tomtom215/convena/internal/metrics"
	"github.com/tomtom215/convena/internal/validation"
)

// SessionConfig carries the tunable knobs for one analysis session.
// Model structure (feature order, epoch counts, cluster count and
// seeds) is fixed by the engine and intentionally not configurable.
type SessionConfig struct {
	// LearningRate is the classifier gradient step size.
	// Typical range: 0.01-1.0. Default: 0.1.
	LearningRate float64

	// Seed initializes the classifier weight RNG so runs are
	// reproducible. Default: 42.
	Seed int64
}

// DefaultSessionConfig returns the recommended session parameters.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		LearningRate: 0.1,
		Seed:         42,
	}
}

// Session runs the analytics pipeline for one organization and window
// and holds the latest trained model generation.
//
// A session serializes its runs: TrainModels refuses to start while a
// run is in flight. Getters always reflect the last successful run; a
// failed run leaves them untouched.
type Session struct {
	config   SessionConfig
	request  AnalysisRequest
	provider DataProvider
	logger   zerolog.Logger

	mu sync.RWMutex

	// Current generation, replaced wholesale on a successful run.
	table        *featureTable
	classifier   *algorithms.LogisticClassifier
	clusterer    *algorithms.KMeans
	predictions  []UserPrediction
	thresholds   Thresholds
	clustered    map[int][]ClusteredUser
	quality      DataQualityReport
	summary      Summary
	trained      bool
	modelVersion int
}

// analysisRun accumulates the artifacts of one pipeline execution. It
// is committed to the session only after the whole run succeeds, so a
// failure cannot corrupt the previous generation.
type analysisRun struct {
	id             string
	table          *featureTable
	scaler         *algorithms.StandardScaler
	classifier     *algorithms.LogisticClassifier
	clusterer      *algorithms.KMeans
	predictions    []UserPrediction
	thresholds     Thresholds
	clustered      map[int][]ClusteredUser
	quality        DataQualityReport
	classifierLoss float64
	clusterInertia float64
}

// NewSession validates the request and prepares a session against the
// given provider. The logger is scoped with an engagement component
// tag.
func NewSession(cfg SessionConfig, req AnalysisRequest, provider DataProvider, logger zerolog.Logger) (*Session, error) {
	if provider == nil {
		return nil, errors.New("data provider is required")
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		return nil, fmt.Errorf("invalid analysis request: %w", verr)
	}
	if err := validateCustomWindow(req.Window); err != nil {
		return nil, err
	}
	if cfg.LearningRate <= 0 {
		cfg.LearningRate = DefaultSessionConfig().LearningRate
	}
	if cfg.Seed == 0 {
		cfg.Seed = DefaultSessionConfig().Seed
	}

	return &Session{
		config:   cfg,
		request:  req,
		provider: provider,
		logger:   logger.With().Str("component", "engagement").Logger(),
	}, nil
}

// validateCustomWindow checks the cross-field constraints a custom
// window adds on top of the struct tags.
func validateCustomWindow(w Window) error {
	if w.Kind != WindowCustom {
		return nil
	}
	if w.Start.IsZero() || w.End.IsZero() {
		return errors.New("custom window requires both start and end")
	}
	if !w.Start.Before(w.End) {
		return fmt.Errorf("custom window start %s must precede end %s",
			w.Start.Format(time.RFC3339), w.End.Format(time.RFC3339))
	}
	return nil
}

// TrainModels executes the full pipeline: aggregate, standardize, train
// the classifier and the cluster engine, then derive predictions and
// insights. On success the previous generation is replaced atomically;
// on failure it is left untouched and the error names the failed step.
//
// ctx is honored while source rows load. Once training starts the run
// cannot be cancelled; the fixed schedules finish in bounded time.
func (s *Session) TrainModels(ctx context.Context, progress ProgressCallback) error {
	if !s.mu.TryLock() {
		return errors.New("analysis already in progress")
	}
	defer s.mu.Unlock()

	runID := logging.GenerateRunID()
	logger := s.logger.With().
		Str("run_id", runID).
		Str("org_id", s.request.OrgID).
		Logger()
	logger.Info().Str("window", s.request.Window.Kind).Msg("starting analysis run")

	start := time.Now()
	run, err := s.execute(ctx, runID, logger, progress)
	duration := time.Since(start)
	metrics.RecordAnalysisRun(duration, err)
	if err != nil {
		logger.Error().Err(err).Int64("duration_ms", duration.Milliseconds()).Msg("analysis run failed")
		return err
	}

	s.commit(run, duration)
	logger.Info().
		Int("events", len(run.table.events)).
		Int("active_users", len(run.table.users)).
		Int("feature_records", len(run.table.records)).
		Float64("classifier_loss", run.classifierLoss).
		Float64("cluster_inertia", run.clusterInertia).
		Int("model_version", s.modelVersion).
		Int64("duration_ms", duration.Milliseconds()).
		Msg("analysis run complete")
	return nil
}

// execute runs the pipeline into a fresh analysisRun without touching
// session state.
func (s *Session) execute(ctx context.Context, runID string, logger zerolog.Logger, progress ProgressCallback) (*analysisRun, error) {
	table, err := buildFeatureTable(ctx, s.provider, s.request, time.Now(), logger)
	if err != nil {
		return nil, err
	}

	// Last cancellation point. Training below always runs its fixed
	// schedule to completion.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	run := &analysisRun{id: runID, table: table}
	if err := s.trainClassifier(run, logger, progress); err != nil {
		return nil, err
	}
	if err := s.trainClusterer(run, logger, progress); err != nil {
		return nil, err
	}
	if err := s.deriveInsights(run); err != nil {
		return nil, err
	}
	run.quality = buildQualityReport(len(table.users), table.totalInteractions)
	return run, nil
}

// trainClassifier fits the scaler and the logistic model on the
// cross-join records. The scaler stays with the run so scoring reuses
// the same standardization.
func (s *Session) trainClassifier(run *analysisRun, logger zerolog.Logger, progress ProgressCallback) error {
	features := make([][]float64, len(run.table.records))
	labels := make([]float64, len(run.table.records))
	for i := range run.table.records {
		features[i] = run.table.records[i].featureVector()
		if run.table.records[i].HasRSVP {
			labels[i] = 1
		}
	}

	scaler := algorithms.NewStandardScaler()
	standardized, err := scaler.FitTransform(features)
	if err != nil {
		return &TrainingFailureError{Stage: StageClassifier, Err: err}
	}

	classifier := algorithms.NewLogisticClassifier(algorithms.ClassifierConfig{
		LearningRate: s.config.LearningRate,
		Seed:         s.config.Seed,
	})
	start := time.Now()
	if err := classifier.Train(standardized, labels, stageProgress(progress, StageClassifier)); err != nil {
		return &TrainingFailureError{Stage: StageClassifier, Err: err}
	}
	metrics.RecordTraining(StageClassifier, time.Since(start), classifier.FinalLoss())
	logger.Debug().
		Int("rows", len(standardized)).
		Float64("loss", classifier.FinalLoss()).
		Msg("classifier trained")

	run.scaler = scaler
	run.classifier = classifier
	run.classifierLoss = classifier.FinalLoss()
	return nil
}

// trainClusterer standardizes each user's (engagement score, RSVP
// rate) pair and partitions the users into behavior tiers.
func (s *Session) trainClusterer(run *analysisRun, logger zerolog.Logger, progress ProgressCallback) error {
	points := make([][]float64, len(run.table.users))
	for i := range run.table.users {
		u := &run.table.users[i]
		points[i] = []float64{u.EngagementScore, u.RSVPRate}
	}

	scaler := algorithms.NewStandardScaler()
	standardized, err := scaler.FitTransform(points)
	if err != nil {
		return &TrainingFailureError{Stage: StageClustering, Err: err}
	}

	clusterer := algorithms.NewKMeans()
	start := time.Now()
	if err := clusterer.Train(standardized, stageProgress(progress, StageClustering)); err != nil {
		return &TrainingFailureError{Stage: StageClustering, Err: err}
	}
	metrics.RecordTraining(StageClustering, time.Since(start), clusterer.Inertia())
	logger.Debug().
		Int("users", len(points)).
		Float64("inertia", clusterer.Inertia()).
		Msg("cluster engine trained")

	run.clustered = assignClusters(run.table, clusterer.Labels())
	run.clusterer = clusterer
	run.clusterInertia = clusterer.Inertia()
	return nil
}

// deriveInsights scores every record and derives the per-user ranking
// and the dynamic thresholds.
func (s *Session) deriveInsights(run *analysisRun) error {
	predictions, err := scoreRecords(run.table, run.scaler, run.classifier)
	if err != nil {
		return &TrainingFailureError{Stage: StageClassifier, Err: err}
	}
	sortPredictions(predictions)
	run.predictions = predictions
	run.thresholds = computeThresholds(predictions)
	return nil
}

// commit replaces the session's generation with the run's output.
// The caller holds the write lock.
func (s *Session) commit(run *analysisRun, duration time.Duration) {
	s.modelVersion++
	s.table = run.table
	s.classifier = run.classifier
	s.clusterer = run.clusterer
	s.predictions = run.predictions
	s.thresholds = run.thresholds
	s.clustered = run.clustered
	s.quality = run.quality
	s.trained = true
	s.summary = Summary{
		RunID:              run.id,
		OrgID:              s.request.OrgID,
		Window:             s.request.Window.Kind,
		EventCount:         len(run.table.events),
		ActiveUserCount:    len(run.table.users),
		FeatureRecordCount: len(run.table.records),
		TrainingDurationMS: duration.Milliseconds(),
		ClassifierLoss:     run.classifierLoss,
		ClusterInertia:     run.clusterInertia,
		ModelVersion:       s.modelVersion,
		TrainedAt:          time.Now(),
	}
	metrics.SetAnalysisVolume(len(run.table.records), len(run.table.users))
}

// stageProgress adapts the session-level callback to the per-model
// progress hook.
func stageProgress(cb ProgressCallback, stage string) algorithms.ProgressFunc {
	if cb == nil {
		return nil
	}
	return func(fraction float64) {
		cb(TrainingStatus{Stage: stage, Fraction: fraction})
	}
}

// UserPredictions returns the per-user RSVP probabilities from the
// last successful run, highest first. The slice is a copy.
func (s *Session) UserPredictions() []UserPrediction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]UserPrediction, len(s.predictions))
	copy(out, s.predictions)
	return out
}

// DynamicThresholds returns the run's engagement cutoffs. Before the
// first successful run the fixed fallbacks apply.
func (s *Session) DynamicThresholds() Thresholds {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.trained {
		return Thresholds{High: fallbackHighThreshold, Medium: fallbackMediumThreshold}
	}
	return s.thresholds
}

// ClusteredUsers returns the run's members grouped by behavior tier.
// Tiers with no members are absent. The map and slices are copies.
func (s *Session) ClusteredUsers() map[int][]ClusteredUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[int][]ClusteredUser, len(s.clustered))
	for label, members := range s.clustered {
		out[label] = append([]ClusteredUser(nil), members...)
	}
	return out
}

// ClusterInsights returns the narrative for each behavior tier. The
// catalog is static; see clusterInsightCatalog for the ordering
// caveat.
func (s *Session) ClusterInsights() map[int]ClusterInsight {
	return insightCatalogCopy()
}

// DataQualityReport returns the last run's data volume grade. Before
// the first successful run it reports poor quality.
func (s *Session) DataQualityReport() DataQualityReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.trained {
		return DataQualityReport{
			Quality:     QualityPoor,
			Message:     "no analysis run has completed yet",
			Suggestions: []string{"Run TrainModels before reading the quality grade"},
		}
	}
	return s.quality
}

// ExportCSV renders the last run's feature table as fully quoted CSV.
// With no completed run it returns the empty placeholder.
func (s *Session) ExportCSV() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var records []EventFeatureRecord
	if s.table != nil {
		records = s.table.records
	}
	out := renderCSV(records)
	metrics.RecordExport(len(records), len(out), nil)
	return out
}

// Centroids returns the trained cluster centroids in standardized
// (engagement score, RSVP rate) space, or nil before the first run.
// Callers can use them to audit the tier narrative ordering.
func (s *Session) Centroids() [][]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.clusterer == nil {
		return nil
	}
	return s.clusterer.Centroids()
}

// IsTrained reports whether the session holds a trained generation.
func (s *Session) IsTrained() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.trained
}

// Summary returns counts and timings for the last successful run.
func (s *Session) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summary
}
