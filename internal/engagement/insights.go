// Convena - Community Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/convena

package engagement

import (
	"fmt"
	"math"
	"sort"

	"github.com/tomtom215/convena/internal/engagement/algorithms"
)

// Fallback cutoffs used when a run has no predictions to rank.
const (
	fallbackHighThreshold   = 0.7
	fallbackMediumThreshold = 0.4
)

// Data volume cutoffs for the quality grade.
const (
	goodQualityUsers        = 20
	goodQualityInteractions = 5.0
	fairQualityUsers        = 10
	fairQualityInteractions = 2.0
)

// scoreRecords runs every feature record through the scaler and
// classifier, stores the per-record probability in place, and returns
// the per-user averages in enumeration order.
func scoreRecords(table *featureTable, scaler *algorithms.StandardScaler, classifier *algorithms.LogisticClassifier) ([]UserPrediction, error) {
	sums := make(map[string]float64, len(table.users))
	counts := make(map[string]int, len(table.users))

	// One vector buffer serves the whole pass; each record overwrites
	// it in place before standardizing.
	vec := make([]float64, classifierFeatures)
	for i := range table.records {
		rec := &table.records[i]
		rec.fillFeatureVector(vec)
		standardized, err := scaler.TransformRow(vec)
		if err != nil {
			return nil, fmt.Errorf("standardize record %d: %w", i, err)
		}
		p, err := classifier.Predict(standardized)
		if err != nil {
			return nil, fmt.Errorf("score record %d: %w", i, err)
		}
		rec.PredictedProbability = p
		sums[rec.AnonymizedUserID] += p
		counts[rec.AnonymizedUserID]++
	}

	predictions := make([]UserPrediction, 0, len(table.users))
	for i := range table.users {
		alias := table.users[i].AnonymizedID
		n := counts[alias]
		if n == 0 {
			continue
		}
		predictions = append(predictions, UserPrediction{
			AnonymizedUserID:     alias,
			PredictedProbability: sums[alias] / float64(n),
		})
	}
	return predictions, nil
}

// sortPredictions orders predictions by probability, highest first.
// Ties keep enumeration order so output is deterministic.
func sortPredictions(predictions []UserPrediction) {
	sort.SliceStable(predictions, func(i, j int) bool {
		return predictions[i].PredictedProbability > predictions[j].PredictedProbability
	})
}

// computeThresholds derives the run's engagement cutoffs from the
// distribution of per-user predictions: the 67th percentile becomes the
// high cutoff and the 33rd the medium one, so roughly a third of the
// members land in each band. With no predictions the fixed fallbacks
// apply.
func computeThresholds(predictions []UserPrediction) Thresholds {
	if len(predictions) == 0 {
		return Thresholds{High: fallbackHighThreshold, Medium: fallbackMediumThreshold}
	}
	values := make([]float64, len(predictions))
	for i, p := range predictions {
		values[i] = p.PredictedProbability
	}
	sort.Float64s(values)
	return Thresholds{
		High:   values[percentileIndex(0.67, len(values))],
		Medium: values[percentileIndex(0.33, len(values))],
	}
}

// percentileIndex maps a percentile to an index into a sorted slice of
// length n using nearest-rank rounding.
func percentileIndex(p float64, n int) int {
	idx := int(math.Round(p * float64(n-1)))
	if idx < 0 {
		idx = 0
	}
	if idx >= n {
		idx = n - 1
	}
	return idx
}

// assignClusters stamps each user's tier onto their feature records and
// groups the run's users by tier. labels must be in user enumeration
// order. Tiers with no members are absent from the map.
func assignClusters(table *featureTable, labels []int) map[int][]ClusteredUser {
	byAlias := make(map[string]int, len(table.users))
	clustered := make(map[int][]ClusteredUser, algorithms.NumClusters)
	for i := range table.users {
		u := &table.users[i]
		label := labels[i]
		byAlias[u.AnonymizedID] = label
		clustered[label] = append(clustered[label], ClusteredUser{
			AnonymizedUserID: u.AnonymizedID,
			EngagementScore:  u.EngagementScore,
			RSVPRate:         u.RSVPRate,
			Cluster:          label,
		})
	}
	for i := range table.records {
		rec := &table.records[i]
		rec.Cluster = byAlias[rec.AnonymizedUserID]
	}
	return clustered
}

// clusterInsightCatalog maps cluster labels to tier narratives.
//
// The mapping assumes the seed-centroid ordering survives training:
// cluster 0 seeds at (-1,-1) and collects the least engaged members,
// cluster 2 seeds at (1,1) and collects the most engaged. Nothing
// verifies that the trained centroids still honor this ordering, so a
// pathological distribution could swap tiers. Session.Centroids exposes
// the trained positions so callers can audit the assumption.
var clusterInsightCatalog = map[int]ClusterInsight{
	0: {
		Name:        "casual participants",
		Description: "Members who browse occasionally and rarely commit to events.",
		Characteristics: []string{
			"Low interaction volume across all action kinds",
			"Few or no RSVPs in the analysis window",
			"Activity concentrated in passive views",
		},
		Recommendations: []string{
			"Offer low-effort entry points such as polls and quick feedback prompts",
			"Surface popular upcoming events in digest form",
			"Hold off on high-commitment asks until activity picks up",
		},
	},
	1: {
		Name:        "regular attendees",
		Description: "Members with steady activity who attend when the topic fits.",
		Characteristics: []string{
			"Consistent views and likes week over week",
			"Moderate RSVP rate with selective attendance",
			"Occasional poll and feedback participation",
		},
		Recommendations: []string{
			"Recommend events similar to those they have RSVPed to",
			"Invite them to bring a guest to grow the regular core",
			"Ask for feedback while an attended event is still fresh",
		},
	},
	2: {
		Name:        "super engaged members",
		Description: "The most active members, engaging across every action kind.",
		Characteristics: []string{
			"High engagement scores driven by evaluations and feedback",
			"High RSVP rate across event types",
			"Early responses to new event announcements",
		},
		Recommendations: []string{
			"Offer organizer or ambassador roles",
			"Open registration early for capacity-limited events",
			"Collect detailed evaluations to shape future programming",
		},
	},
}

// insightCatalogCopy returns a mutation-safe copy of the catalog.
func insightCatalogCopy() map[int]ClusterInsight {
	out := make(map[int]ClusterInsight, len(clusterInsightCatalog))
	for id, insight := range clusterInsightCatalog {
		c := insight
		c.Characteristics = append([]string(nil), insight.Characteristics...)
		c.Recommendations = append([]string(nil), insight.Recommendations...)
		out[id] = c
	}
	return out
}

// buildQualityReport grades the run's data volume. The grade considers
// both breadth (distinct active users) and depth (average interactions
// per user).
func buildQualityReport(activeUsers, totalInteractions int) DataQualityReport {
	avg := 0.0
	if activeUsers > 0 {
		avg = float64(totalInteractions) / float64(activeUsers)
	}
	switch {
	case activeUsers >= goodQualityUsers && avg >= goodQualityInteractions:
		return DataQualityReport{
			Quality: QualityGood,
			Message: fmt.Sprintf("%d active users averaging %.1f interactions each; predictions should be reliable", activeUsers, avg),
		}
	case activeUsers >= fairQualityUsers && avg >= fairQualityInteractions:
		return DataQualityReport{
			Quality: QualityFair,
			Message: fmt.Sprintf("%d active users averaging %.1f interactions each; predictions are usable but coarse", activeUsers, avg),
			Suggestions: []string{
				"Collect more interaction history before relying on fine-grained rankings",
				"Encourage members to react to and RSVP for events",
			},
		}
	default:
		return DataQualityReport{
			Quality: QualityPoor,
			Message: fmt.Sprintf("%d active users averaging %.1f interactions each; treat predictions as rough estimates", activeUsers, avg),
			Suggestions: []string{
				"Extend the analysis window to capture more activity",
				"Grow the active member base before acting on predictions",
			},
		}
	}
}
