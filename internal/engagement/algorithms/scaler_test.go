// Convena - Community Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/convena

package algorithms

import (
	"math"
	"testing"
)

func TestNewStandardScaler(t *testing.T) {
	t.Parallel()

	s := NewStandardScaler()
	if s == nil {
		t.Fatal("NewStandardScaler returned nil")
	}
	if s.IsFitted() {
		t.Error("IsFitted() on a new scaler = true, want false")
	}

	p := s.Params()
	if p.Mean != nil || p.Std != nil {
		t.Errorf("Params() on a new scaler = %+v, want empty", p)
	}
}

func TestStandardScaler_Fit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		rows     [][]float64
		wantMean []float64
		wantStd  []float64
	}{
		{
			name:     "two rows two features",
			rows:     [][]float64{{1, 10}, {3, 30}},
			wantMean: []float64{2, 20},
			wantStd:  []float64{1, 10},
		},
		{
			name:     "single row has zero variance",
			rows:     [][]float64{{5, -3}},
			wantMean: []float64{5, -3},
			wantStd:  []float64{0, 0},
		},
		{
			name:     "constant column",
			rows:     [][]float64{{4, 1}, {4, 2}, {4, 3}},
			wantMean: []float64{4, 2},
			wantStd:  []float64{0, math.Sqrt(2.0 / 3.0)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := NewStandardScaler()
			if err := s.Fit(tt.rows); err != nil {
				t.Fatalf("Fit() error = %v", err)
			}

			p := s.Params()
			for j := range tt.wantMean {
				if math.Abs(p.Mean[j]-tt.wantMean[j]) > 1e-12 {
					t.Errorf("Mean[%d] = %f, want %f", j, p.Mean[j], tt.wantMean[j])
				}
				if math.Abs(p.Std[j]-tt.wantStd[j]) > 1e-12 {
					t.Errorf("Std[%d] = %f, want %f", j, p.Std[j], tt.wantStd[j])
				}
			}
		})
	}
}

func TestStandardScaler_FitErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rows [][]float64
	}{
		{name: "no rows", rows: nil},
		{name: "empty rows", rows: [][]float64{}},
		{name: "rows have no features", rows: [][]float64{{}, {}}},
		{name: "ragged rows", rows: [][]float64{{1, 2}, {3}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := NewStandardScaler()
			if err := s.Fit(tt.rows); err == nil {
				t.Error("Fit() error = nil, want error")
			}
			if s.IsFitted() {
				t.Error("IsFitted() after failed Fit = true, want false")
			}
		})
	}
}

func TestStandardScaler_Transform(t *testing.T) {
	t.Parallel()

	rows := [][]float64{{1, 10}, {3, 30}}

	s := NewStandardScaler()
	out, err := s.FitTransform(rows)
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}

	// Mean (2, 20), std (1, 10): both rows standardize to +/-1 modulo
	// the epsilon in the divisor.
	want := [][]float64{{-1, -1}, {1, 1}}
	for i := range want {
		for j := range want[i] {
			if math.Abs(out[i][j]-want[i][j]) > 1e-6 {
				t.Errorf("out[%d][%d] = %f, want %f", i, j, out[i][j], want[i][j])
			}
		}
	}

	// The input rows are untouched.
	if rows[0][0] != 1 || rows[1][1] != 30 {
		t.Error("Transform() mutated its input")
	}
}

func TestStandardScaler_ZeroVariance(t *testing.T) {
	t.Parallel()

	rows := [][]float64{{7, 1}, {7, 2}, {7, 3}}

	s := NewStandardScaler()
	out, err := s.FitTransform(rows)
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}

	// A constant feature standardizes to exactly zero, not NaN.
	for i := range out {
		if out[i][0] != 0 {
			t.Errorf("out[%d][0] = %f, want 0", i, out[i][0])
		}
		if math.IsNaN(out[i][1]) || math.IsInf(out[i][1], 0) {
			t.Errorf("out[%d][1] = %f, want finite", i, out[i][1])
		}
	}
}

func TestStandardScaler_RoundTrip(t *testing.T) {
	t.Parallel()

	rows := [][]float64{
		{12, 0, 3, 1, 0, 2, 155},
		{4, 5, 0, 0, 1, 0, 29},
		{33, 2, 8, 4, 2, 1, 580},
		{0, 0, 0, 0, 0, 0, 0},
		{9, 9, 9, 9, 9, 9, 999},
	}

	s := NewStandardScaler()
	standardized, err := s.FitTransform(rows)
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}

	restored, err := s.InverseTransform(standardized)
	if err != nil {
		t.Fatalf("InverseTransform() error = %v", err)
	}

	for i := range rows {
		for j := range rows[i] {
			if math.Abs(restored[i][j]-rows[i][j]) > 1e-9 {
				t.Errorf("restored[%d][%d] = %f, want %f", i, j, restored[i][j], rows[i][j])
			}
		}
	}
}

func TestStandardScaler_TransformRow(t *testing.T) {
	t.Parallel()

	s := NewStandardScaler()

	if _, err := s.TransformRow([]float64{1, 2}); err == nil {
		t.Error("TransformRow() before Fit: error = nil, want error")
	}

	if err := s.Fit([][]float64{{1, 10}, {3, 30}}); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	// The mean row standardizes to the origin.
	out, err := s.TransformRow([]float64{2, 20})
	if err != nil {
		t.Fatalf("TransformRow() error = %v", err)
	}
	for j, v := range out {
		if math.Abs(v) > 1e-9 {
			t.Errorf("out[%d] = %f, want 0", j, v)
		}
	}

	if _, err := s.TransformRow([]float64{1}); err == nil {
		t.Error("TransformRow() with wrong width: error = nil, want error")
	}
}

func TestStandardScaler_InverseTransformErrors(t *testing.T) {
	t.Parallel()

	s := NewStandardScaler()
	if _, err := s.InverseTransform([][]float64{{0, 0}}); err == nil {
		t.Error("InverseTransform() before Fit: error = nil, want error")
	}

	if err := s.Fit([][]float64{{1, 10}, {3, 30}}); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if _, err := s.InverseTransform([][]float64{{0}}); err == nil {
		t.Error("InverseTransform() with wrong width: error = nil, want error")
	}
}

func TestStandardScaler_ParamsCopy(t *testing.T) {
	t.Parallel()

	s := NewStandardScaler()
	if err := s.Fit([][]float64{{1, 10}, {3, 30}}); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	p := s.Params()
	p.Mean[0] = 999
	p.Std[0] = 999

	fresh := s.Params()
	if fresh.Mean[0] != 2 {
		t.Errorf("Mean[0] after mutating a copy = %f, want 2", fresh.Mean[0])
	}
	if fresh.Std[0] != 1 {
		t.Errorf("Std[0] after mutating a copy = %f, want 1", fresh.Std[0])
	}
}

func BenchmarkStandardScaler_FitTransform(b *testing.B) {
	rows := make([][]float64, 1000)
	for i := range rows {
		row := make([]float64, 7)
		for j := range row {
			row[j] = float64((i*7 + j*13) % 100)
		}
		rows[i] = row
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s := NewStandardScaler()
		_, _ = s.FitTransform(rows)
	}
}
