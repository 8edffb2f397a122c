// Convena - Community Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/convena

package algorithms

import (
	"errors"
	"fmt"
)

// NumClusters is the fixed number of behavior tiers produced by clustering.
const NumClusters = 3

// clusterFeatures is the dimensionality of the clustering space:
// engagement score and RSVP rate, after standardization.
const clusterFeatures = 2

// clusterIterations is the fixed refinement schedule. Runs always
// complete the full count; there is no convergence exit.
const clusterIterations = 100

// KMeans groups members into engagement tiers by k-means over
// standardized 2-D points.
//
// Centroid seeding is deterministic. Standardized features concentrate
// around the origin, so seeds at (-1,-1), (0,0) and (1,1) spread the
// starting positions along the low-to-high engagement diagonal and make
// runs reproducible without a random source.
//
// Training runs to completion once started. Callers observe progress
// through the ProgressFunc, invoked once per iteration.
type KMeans struct {
	BaseModel

	// centroids holds NumClusters positions in standardized space.
	centroids [][]float64

	// labels holds the cluster assignment of each training row, in
	// input order.
	labels []int

	// inertia is the sum of squared distances from each point to its
	// assigned centroid at the final assignment pass.
	inertia float64
}

// NewKMeans creates a new untrained clusterer.
func NewKMeans() *KMeans {
	return &KMeans{
		BaseModel: NewBaseModel("kmeans"),
	}
}

// seedCentroids returns the deterministic starting positions.
func seedCentroids() [][]float64 {
	return [][]float64{
		{-1, -1},
		{0, 0},
		{1, 1},
	}
}

// Train clusters standardized 2-D points over the full iteration schedule.
//
// Each iteration assigns every point to its nearest centroid by squared
// Euclidean distance, then recomputes each centroid as the mean of its
// assigned points. A cluster left with no points keeps its previous
// centroid. Progress reports (iteration+1)/clusterIterations after each
// iteration, so the final call reports 1.0.
//
// Training an empty point set succeeds and leaves the seed centroids
// standing.
func (k *KMeans) Train(points [][]float64, progress ProgressFunc) error {
	k.acquireTrainLock()
	defer k.releaseTrainLock()

	for i, p := range points {
		if len(p) != clusterFeatures {
			return fmt.Errorf("row %d has %d features, want %d", i, len(p), clusterFeatures)
		}
	}

	k.centroids = seedCentroids()
	k.labels = make([]int, len(points))
	k.inertia = 0

	if len(points) == 0 {
		k.markTrained()
		return nil
	}

	// Accumulation buffers reused across iterations. Each iteration
	// resets them in place before accumulating replacements.
	sums := make([][]float64, NumClusters)
	for c := range sums {
		sums[c] = make([]float64, clusterFeatures)
	}
	counts := make([]int, NumClusters)

	for it := 0; it < clusterIterations; it++ {
		for c := range sums {
			sums[c][0] = 0
			sums[c][1] = 0
			counts[c] = 0
		}

		// Assignment pass.
		var inertia float64
		for i, p := range points {
			best := 0
			bestDist := squaredDistance(p, k.centroids[0])
			for c := 1; c < NumClusters; c++ {
				if d := squaredDistance(p, k.centroids[c]); d < bestDist {
					best = c
					bestDist = d
				}
			}

			k.labels[i] = best
			inertia += bestDist
			sums[best][0] += p[0]
			sums[best][1] += p[1]
			counts[best]++
		}

		// Update pass. An empty cluster keeps its centroid.
		for c := range k.centroids {
			if counts[c] == 0 {
				continue
			}
			for d := range k.centroids[c] {
				k.centroids[c][d] = sums[c][d] / float64(counts[c])
				if !isFinite(k.centroids[c][d]) {
					return fmt.Errorf("centroid %d is not finite at iteration %d", c, it+1)
				}
			}
		}

		k.inertia = inertia

		if progress != nil {
			progress(float64(it+1) / float64(clusterIterations))
		}
	}

	k.markTrained()
	return nil
}

// Assign returns the nearest-centroid label for a standardized point.
func (k *KMeans) Assign(point []float64) (int, error) {
	k.acquirePredictLock()
	defer k.releasePredictLock()

	if !k.trained {
		return 0, errors.New("clusterer is not trained")
	}
	if len(point) != clusterFeatures {
		return 0, fmt.Errorf("point has %d features, want %d", len(point), clusterFeatures)
	}

	best := 0
	bestDist := squaredDistance(point, k.centroids[0])
	for c := 1; c < NumClusters; c++ {
		if d := squaredDistance(point, k.centroids[c]); d < bestDist {
			best = c
			bestDist = d
		}
	}
	return best, nil
}

// Centroids returns a copy of the centroid positions, or nil before
// training.
func (k *KMeans) Centroids() [][]float64 {
	k.acquirePredictLock()
	defer k.releasePredictLock()

	if k.centroids == nil {
		return nil
	}

	out := make([][]float64, len(k.centroids))
	for c := range k.centroids {
		out[c] = make([]float64, len(k.centroids[c]))
		copy(out[c], k.centroids[c])
	}
	return out
}

// Labels returns a copy of the per-row cluster assignments, in the order
// the training rows were supplied.
func (k *KMeans) Labels() []int {
	k.acquirePredictLock()
	defer k.releasePredictLock()

	if k.labels == nil {
		return nil
	}

	out := make([]int, len(k.labels))
	copy(out, k.labels)
	return out
}

// Inertia returns the summed squared distance from each point to its
// assigned centroid at the final assignment pass.
func (k *KMeans) Inertia() float64 {
	k.acquirePredictLock()
	defer k.releasePredictLock()
	return k.inertia
}

// squaredDistance computes the squared Euclidean distance between two
// vectors of equal length.
func squaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// Ensure interface compliance.
var _ Model = (*KMeans)(nil)
