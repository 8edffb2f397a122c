// Convena - Community Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/convena

package algorithms

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// classifierEpochs is the fixed training schedule for the classifier.
// Training always runs the full count with no early stopping.
const classifierEpochs = 100

// probabilityFloor clamps predicted probabilities away from 0 and 1 so
// the cross-entropy logs stay finite while predictions saturate.
const probabilityFloor = 1e-12

// ClassifierConfig contains configuration for the RSVP classifier.
type ClassifierConfig struct {
	// LearningRate is the gradient descent step size.
	// Typical range: 0.01-1.0.
	// Default: 0.1.
	LearningRate float64

	// Seed for reproducible weight initialization.
	// If 0, uses a default seed.
	Seed int64
}

// DefaultClassifierConfig returns default classifier configuration.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		LearningRate: 0.1,
		Seed:         42,
	}
}

// LogisticClassifier predicts RSVP likelihood from standardized
// engagement features.
//
// The model is a single linear unit with a sigmoid output, trained by
// full-batch gradient descent on binary cross-entropy. With at most seven
// inputs there is nothing to regularize or mini-batch; the full schedule
// runs in well under a millisecond at realistic organization sizes.
//
// Training runs to completion once started. Callers observe progress
// through the ProgressFunc, invoked once per epoch.
type LogisticClassifier struct {
	BaseModel
	config ClassifierConfig

	// weights holds one coefficient per input feature.
	weights []float64

	// bias is the intercept term.
	bias float64

	// finalLoss is the binary cross-entropy observed in the final epoch.
	finalLoss float64
}

// NewLogisticClassifier creates a new classifier with the given configuration.
func NewLogisticClassifier(cfg ClassifierConfig) *LogisticClassifier {
	if cfg.LearningRate <= 0 {
		cfg.LearningRate = 0.1
	}
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}

	return &LogisticClassifier{
		BaseModel: NewBaseModel("logistic"),
		config:    cfg,
	}
}

// Train fits the classifier on standardized feature rows and binary labels.
// The feature dimensionality is taken from the first row; every row must
// match it, and labels must pair one-to-one with rows.
//
// Each epoch performs one full-batch gradient step. The loop always runs
// classifierEpochs epochs; progress reports (epoch+1)/classifierEpochs
// after each one, so the final call reports 1.0. A NaN or infinite loss,
// weight, or bias aborts training with an error.
func (c *LogisticClassifier) Train(features [][]float64, labels []float64, progress ProgressFunc) error {
	c.acquireTrainLock()
	defer c.releaseTrainLock()

	if len(features) == 0 {
		return errors.New("no training rows")
	}
	if len(features) != len(labels) {
		return fmt.Errorf("have %d rows but %d labels", len(features), len(labels))
	}

	dim := len(features[0])
	if dim == 0 {
		return errors.New("rows have no features")
	}
	for i, row := range features {
		if len(row) != dim {
			return fmt.Errorf("row %d has %d features, want %d", i, len(row), dim)
		}
	}

	// Initialize weights with small random values.
	//nolint:gosec // G404: math/rand is acceptable for ML initialization (not security)
	rng := rand.New(rand.NewSource(c.config.Seed))

	c.weights = make([]float64, dim)
	for j := range c.weights {
		c.weights[j] = (rng.Float64() - 0.5) * 0.01
	}
	c.bias = (rng.Float64() - 0.5) * 0.01

	n := float64(len(features))
	lr := c.config.LearningRate

	// Accumulation buffers reused across epochs. Each epoch resets them
	// in place before accumulating replacements.
	preds := make([]float64, len(features))
	grad := make([]float64, dim)

	for epoch := 0; epoch < classifierEpochs; epoch++ {
		// Forward pass plus loss.
		var loss float64
		for i, row := range features {
			z := c.bias
			for j, v := range row {
				z += c.weights[j] * v
			}
			p := sigmoid(z)
			preds[i] = p

			// Binary cross-entropy with the probability clamped away
			// from 0 and 1 so the logs stay finite.
			p = clampProbability(p)
			loss += -(labels[i]*math.Log(p) + (1-labels[i])*math.Log(1-p))
		}
		loss /= n

		if !isFinite(loss) {
			return fmt.Errorf("loss is not finite at epoch %d", epoch+1)
		}

		// Backward pass.
		for j := range grad {
			grad[j] = 0
		}
		var gradBias float64
		for i, row := range features {
			// d_loss/d_z = predicted - label
			diff := preds[i] - labels[i]
			for j, v := range row {
				grad[j] += diff * v
			}
			gradBias += diff
		}

		for j := range c.weights {
			c.weights[j] -= lr * grad[j] / n
		}
		c.bias -= lr * gradBias / n

		// The clamped loss can stay finite while the weights diverge,
		// so check them directly.
		for j, w := range c.weights {
			if !isFinite(w) {
				return fmt.Errorf("weight %d is not finite at epoch %d", j, epoch+1)
			}
		}
		if !isFinite(c.bias) {
			return fmt.Errorf("bias is not finite at epoch %d", epoch+1)
		}

		c.finalLoss = loss

		if progress != nil {
			progress(float64(epoch+1) / float64(classifierEpochs))
		}
	}

	c.markTrained()
	return nil
}

// Predict scores a single standardized row to an RSVP probability in [0, 1].
func (c *LogisticClassifier) Predict(row []float64) (float64, error) {
	c.acquirePredictLock()
	defer c.releasePredictLock()

	if !c.trained {
		return 0, errors.New("classifier is not trained")
	}
	if len(row) != len(c.weights) {
		return 0, fmt.Errorf("row has %d features, want %d", len(row), len(c.weights))
	}

	z := c.bias
	for j, v := range row {
		z += c.weights[j] * v
	}
	return sigmoid(z), nil
}

// Weights returns a copy of the learned coefficients (for testing/debugging).
func (c *LogisticClassifier) Weights() []float64 {
	c.acquirePredictLock()
	defer c.releasePredictLock()

	if c.weights == nil {
		return nil
	}

	out := make([]float64, len(c.weights))
	copy(out, c.weights)
	return out
}

// Bias returns the learned intercept (for testing/debugging).
func (c *LogisticClassifier) Bias() float64 {
	c.acquirePredictLock()
	defer c.releasePredictLock()
	return c.bias
}

// FinalLoss returns the binary cross-entropy observed in the final epoch.
func (c *LogisticClassifier) FinalLoss() float64 {
	c.acquirePredictLock()
	defer c.releasePredictLock()
	return c.finalLoss
}

// sigmoid maps a linear score to (0, 1).
func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

// clampProbability keeps p inside [probabilityFloor, 1-probabilityFloor].
// NaN passes through so the loss check catches it.
func clampProbability(p float64) float64 {
	if p < probabilityFloor {
		return probabilityFloor
	}
	if p > 1-probabilityFloor {
		return 1 - probabilityFloor
	}
	return p
}

// Ensure interface compliance.
var _ Model = (*LogisticClassifier)(nil)
