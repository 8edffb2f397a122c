// Convena - Community Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/convena

package algorithms

import (
	"math"
	"sync"
	"time"
)

// ProgressFunc reports training progress as a fraction in (0, 1].
// Training loops invoke it once per epoch or iteration; the final
// invocation always reports 1.0. A nil ProgressFunc disables reporting.
type ProgressFunc func(fraction float64)

// Model is the common handle shared by the trained models.
type Model interface {
	// Name returns the model identifier.
	Name() string

	// IsTrained returns whether the model has been trained.
	IsTrained() bool

	// Version returns the model version, incremented on each training run.
	Version() int

	// LastTrainedAt returns when the model was last trained.
	LastTrainedAt() time.Time
}

// BaseModel provides common functionality for all models.
type BaseModel struct {
	name          string
	trained       bool
	version       int
	lastTrainedAt time.Time
	mu            sync.RWMutex
}

// NewBaseModel creates a new base model with the given name.
func NewBaseModel(name string) BaseModel {
	return BaseModel{
		name: name,
	}
}

// Name returns the model identifier.
func (b *BaseModel) Name() string {
	return b.name
}

// IsTrained returns whether the model has been trained.
func (b *BaseModel) IsTrained() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.trained
}

// Version returns the model version.
func (b *BaseModel) Version() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.version
}

// LastTrainedAt returns when the model was last trained.
func (b *BaseModel) LastTrainedAt() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastTrainedAt
}

// markTrained updates the trained state.
// Must be called while holding the training lock (acquireTrainLock).
func (b *BaseModel) markTrained() {
	// Lock is already held by caller via acquireTrainLock()
	b.trained = true
	b.version++
	b.lastTrainedAt = time.Now()
}

// acquireTrainLock acquires the exclusive training lock.
func (b *BaseModel) acquireTrainLock() {
	b.mu.Lock()
}

// releaseTrainLock releases the exclusive training lock.
func (b *BaseModel) releaseTrainLock() {
	b.mu.Unlock()
}

// acquirePredictLock acquires the shared prediction lock.
func (b *BaseModel) acquirePredictLock() {
	b.mu.RLock()
}

// releasePredictLock releases the shared prediction lock.
func (b *BaseModel) releasePredictLock() {
	b.mu.RUnlock()
}

// isFinite reports whether x is neither NaN nor infinite.
func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Ensure all models implement the interface.
var (
	_ Model = (*LogisticClassifier)(nil)
	_ Model = (*KMeans)(nil)
)
