// Convena - Community Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/convena

// Package engagement runs the community engagement analytics pipeline:
// it aggregates raw activity rows into per-member features, trains an
// RSVP classifier and a behavior clusterer, and derives ranked
// predictions, engagement thresholds, and organizer-facing insights.
//
// # Pipeline
//
// A run flows through fixed steps:
//
//  1. Aggregate: fetch event posts, active members, RSVPs, and
//     interaction logs for the window; roll logs up into per-user
//     counters; cross-join events with users into feature records.
//  2. Standardize: z-score the feature columns (see the algorithms
//     subpackage for the epsilon convention).
//  3. Train: fit the logistic classifier on the records and the
//     k-means clusterer on each user's (engagement score, RSVP rate).
//  4. Derive: score every record, average per user, rank, compute
//     percentile thresholds, and group users by behavior tier.
//
// Aggregates are rebuilt from raw rows on every run and never
// persisted. Real user ids never leave the engine; every output keys
// members by a per-run "User_N" alias assigned in enumeration order.
//
// # Usage
//
//	session, err := engagement.NewSession(
//	    engagement.DefaultSessionConfig(),
//	    engagement.AnalysisRequest{
//	        OrgID:  "org-42",
//	        Window: engagement.Window{Kind: engagement.Window90d},
//	    },
//	    provider,
//	    logger,
//	)
//	if err != nil {
//	    return err
//	}
//	if err := session.TrainModels(ctx, nil); err != nil {
//	    return err
//	}
//	for _, p := range session.UserPredictions() {
//	    fmt.Printf("%s: %.2f\n", p.AnonymizedUserID, p.PredictedProbability)
//	}
//
// # Failure Modes
//
// Runs fail with typed errors callers can branch on with errors.As:
// DataUnavailableError (no events in the window),
// InsufficientMembersError (no active members),
// InsufficientActivityError (fewer than MinActiveUsers distinct users
// with activity), and TrainingFailureError (a numeric failure inside a
// model). A failed run leaves the previous generation untouched.
//
// # Cancellation
//
// The context passed to TrainModels is honored while source rows load.
// Once training starts the run cannot be cancelled; both models run a
// fixed schedule that finishes in bounded time.
//
// # Thread Safety
//
// Session serializes runs with a try-lock and serves getters under a
// read lock. Getters return copies, so callers can hold results across
// later runs.
//
// # See Also
//
//   - internal/engagement/algorithms: the numeric primitives
//   - internal/database: the DuckDB-backed DataProvider
package engagement
