// Convena - Community Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/convena

// Package algorithms implements the numeric models behind the engagement
// analytics pipeline.
//
// Three small primitives cover the whole modeling surface:
//
//   - StandardScaler: per-feature standardization with an epsilon guard
//   - LogisticClassifier: RSVP likelihood via logistic regression
//   - KMeans: behavior tiers via k-means with deterministic seeding
//
// The models are deliberately tiny (at most seven inputs, three
// centroids) and train in milliseconds, so no ML framework is involved;
// everything is explicit slice math.
//
// # Training Schedule
//
// Both models run a fixed schedule of 100 epochs or iterations with no
// early stopping and no convergence exit. At this scale an adaptive stop
// would save microseconds while making run timing data-dependent; the
// fixed schedule keeps runs comparable across organizations. Callers
// observe progress through a ProgressFunc invoked once per epoch or
// iteration, with the final invocation reporting 1.0.
//
// Training cannot be cancelled once started. Callers that need a
// cancellation point must take it before calling Train.
//
// # Usage Example
//
// Standardizing features and training the classifier:
//
//	scaler := algorithms.NewStandardScaler()
//	standardized, err := scaler.FitTransform(rows)
//	if err != nil {
//	    return err
//	}
//
//	clf := algorithms.NewLogisticClassifier(algorithms.DefaultClassifierConfig())
//	if err := clf.Train(standardized, labels, func(f float64) {
//	    log.Printf("classifier %.0f%%", f*100)
//	}); err != nil {
//	    return err
//	}
//
//	p, err := clf.Predict(standardized[0])
//
// Clustering standardized (engagement score, RSVP rate) points:
//
//	km := algorithms.NewKMeans()
//	if err := km.Train(points, nil); err != nil {
//	    return err
//	}
//	labels := km.Labels()
//
// # Determinism
//
// The classifier initializes weights from a seeded math/rand source
// (default seed 42), so two runs with the same data and seed produce the
// same weights. KMeans uses no random source at all: centroids always
// seed at (-1,-1), (0,0) and (1,1) in standardized space.
//
// # Numeric Failure
//
// A NaN or infinite loss, weight, or centroid aborts training with a
// descriptive error instead of returning a silently broken model. The
// cross-entropy loss clamps probabilities away from 0 and 1, so weight
// divergence is checked separately from the loss.
//
// # Thread Safety
//
// The trained models embed BaseModel and follow the usual locking split:
// training acquires an exclusive lock, prediction and all getters a
// shared lock. The StandardScaler is the exception; it is a plain
// single-goroutine helper with no locking.
//
// # See Also
//
//   - internal/engagement: pipeline, feature table, and insights
//   - internal/database: the backing analytics store
package algorithms
