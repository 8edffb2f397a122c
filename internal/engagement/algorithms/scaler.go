// Convena - Community Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/convena

package algorithms

import (
	"errors"
	"fmt"
	"math"
)

// Epsilon guards standardization against zero-variance features.
// It is always added to the standard deviation before dividing.
const Epsilon = 1e-8

// ScalerParams holds the per-feature statistics of a fitted scaler.
type ScalerParams struct {
	// Mean holds the per-feature arithmetic mean.
	Mean []float64

	// Std holds the per-feature population standard deviation.
	Std []float64
}

// StandardScaler centers and scales features to zero mean and unit variance.
//
// Fit computes per-feature mean and standard deviation across all rows;
// Transform then maps each value to (value - mean) / (std + Epsilon). The
// epsilon keeps constant features at exactly zero instead of dividing by
// zero. InverseTransform reverses the mapping with the same epsilon, so a
// round trip reproduces the input within floating-point tolerance.
//
// A StandardScaler is not safe for concurrent use. The analysis pipeline
// fits one from a single goroutine and keeps the fitted params for
// inference within the same run.
type StandardScaler struct {
	mean []float64
	std  []float64
}

// NewStandardScaler creates an unfitted scaler.
func NewStandardScaler() *StandardScaler {
	return &StandardScaler{}
}

// IsFitted returns whether Fit has been called.
func (s *StandardScaler) IsFitted() bool {
	return s.mean != nil
}

// Fit computes per-feature mean and population standard deviation from
// rows. All rows must have the same length.
func (s *StandardScaler) Fit(rows [][]float64) error {
	if len(rows) == 0 {
		return errors.New("no rows to fit")
	}

	dim := len(rows[0])
	if dim == 0 {
		return errors.New("rows have no features")
	}
	for i, row := range rows {
		if len(row) != dim {
			return fmt.Errorf("row %d has %d features, want %d", i, len(row), dim)
		}
	}

	n := float64(len(rows))

	mean := make([]float64, dim)
	for _, row := range rows {
		for j, v := range row {
			mean[j] += v
		}
	}
	for j := range mean {
		mean[j] /= n
	}

	std := make([]float64, dim)
	for _, row := range rows {
		for j, v := range row {
			d := v - mean[j]
			std[j] += d * d
		}
	}
	for j := range std {
		std[j] = math.Sqrt(std[j] / n)
	}

	s.mean = mean
	s.std = std
	return nil
}

// TransformRow standardizes a single row using the fitted params.
func (s *StandardScaler) TransformRow(row []float64) ([]float64, error) {
	if !s.IsFitted() {
		return nil, errors.New("scaler is not fitted")
	}
	if len(row) != len(s.mean) {
		return nil, fmt.Errorf("row has %d features, want %d", len(row), len(s.mean))
	}

	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = (v - s.mean[j]) / (s.std[j] + Epsilon)
	}
	return out, nil
}

// Transform standardizes rows using the fitted params.
func (s *StandardScaler) Transform(rows [][]float64) ([][]float64, error) {
	if !s.IsFitted() {
		return nil, errors.New("scaler is not fitted")
	}

	out := make([][]float64, len(rows))
	for i, row := range rows {
		t, err := s.TransformRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = t
	}
	return out, nil
}

// FitTransform fits the scaler on rows and returns the standardized rows.
func (s *StandardScaler) FitTransform(rows [][]float64) ([][]float64, error) {
	if err := s.Fit(rows); err != nil {
		return nil, err
	}
	return s.Transform(rows)
}

// InverseTransform maps standardized rows back to the original space.
func (s *StandardScaler) InverseTransform(rows [][]float64) ([][]float64, error) {
	if !s.IsFitted() {
		return nil, errors.New("scaler is not fitted")
	}

	out := make([][]float64, len(rows))
	for i, row := range rows {
		if len(row) != len(s.mean) {
			return nil, fmt.Errorf("row %d has %d features, want %d", i, len(row), len(s.mean))
		}
		out[i] = make([]float64, len(row))
		for j, v := range row {
			out[i][j] = v*(s.std[j]+Epsilon) + s.mean[j]
		}
	}
	return out, nil
}

// Params returns a copy of the fitted statistics (for testing/debugging).
func (s *StandardScaler) Params() ScalerParams {
	if !s.IsFitted() {
		return ScalerParams{}
	}

	p := ScalerParams{
		Mean: make([]float64, len(s.mean)),
		Std:  make([]float64, len(s.std)),
	}
	copy(p.Mean, s.mean)
	copy(p.Std, s.std)
	return p
}
