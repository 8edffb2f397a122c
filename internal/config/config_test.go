// Convena - Community Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/convena

package config

import (
	"strings"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:    "defaults are valid",
			modify:  func(c *Config) {},
			wantErr: "",
		},
		{
			name:    "empty database path",
			modify:  func(c *Config) { c.Database.Path = "" },
			wantErr: "DUCKDB_PATH",
		},
		{
			name:    "negative threads",
			modify:  func(c *Config) { c.Database.Threads = -1 },
			wantErr: "DUCKDB_THREADS",
		},
		{
			name:    "unknown window",
			modify:  func(c *Config) { c.Analytics.Window = "14d" },
			wantErr: "ANALYTICS_WINDOW",
		},
		{
			name:    "custom window missing bounds",
			modify:  func(c *Config) { c.Analytics.Window = "custom" },
			wantErr: "ANALYTICS_WINDOW_START",
		},
		{
			name: "custom window bad start",
			modify: func(c *Config) {
				c.Analytics.Window = "custom"
				c.Analytics.WindowStart = "not-a-time"
				c.Analytics.WindowEnd = "2026-06-01T00:00:00Z"
			},
			wantErr: "ANALYTICS_WINDOW_START",
		},
		{
			name: "custom window start after end",
			modify: func(c *Config) {
				c.Analytics.Window = "custom"
				c.Analytics.WindowStart = "2026-06-01T00:00:00Z"
				c.Analytics.WindowEnd = "2026-05-01T00:00:00Z"
			},
			wantErr: "must precede",
		},
		{
			name: "valid custom window",
			modify: func(c *Config) {
				c.Analytics.Window = "custom"
				c.Analytics.WindowStart = "2026-05-01T00:00:00Z"
				c.Analytics.WindowEnd = "2026-06-01T00:00:00Z"
			},
			wantErr: "",
		},
		{
			name:    "zero learning rate",
			modify:  func(c *Config) { c.Analytics.LearningRate = 0 },
			wantErr: "ANALYTICS_LEARNING_RATE",
		},
		{
			name:    "learning rate above one",
			modify:  func(c *Config) { c.Analytics.LearningRate = 1.5 },
			wantErr: "ANALYTICS_LEARNING_RATE",
		},
		{
			name: "demo seed with zero members",
			modify: func(c *Config) {
				c.Demo.Seed = true
				c.Demo.Members = 0
			},
			wantErr: "DEMO_MEMBERS",
		},
		{
			name:    "bad log level",
			modify:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "LOG_LEVEL",
		},
		{
			name:    "bad log format",
			modify:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "LOG_FORMAT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := defaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestCustomWindow(t *testing.T) {
	t.Parallel()

	a := AnalyticsConfig{
		Window:      "custom",
		WindowStart: "2026-05-01T00:00:00Z",
		WindowEnd:   "2026-06-01T00:00:00Z",
	}

	start, end, err := a.CustomWindow()
	if err != nil {
		t.Fatalf("CustomWindow() error = %v", err)
	}

	wantStart := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	if !start.Equal(wantStart) {
		t.Errorf("start = %v, want %v", start, wantStart)
	}
	if !end.Equal(wantEnd) {
		t.Errorf("end = %v, want %v", end, wantEnd)
	}
}

func TestCustomWindowParseError(t *testing.T) {
	t.Parallel()

	a := AnalyticsConfig{
		Window:      "custom",
		WindowStart: "yesterday",
		WindowEnd:   "2026-06-01T00:00:00Z",
	}

	if _, _, err := a.CustomWindow(); err == nil {
		t.Error("CustomWindow() = nil error, want parse error")
	}
}
