// Convena - Community Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/convena

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration loaded from environment variables
// and config files.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml) for persistent settings
//  3. Environment Variables: Override any setting via environment variables
//
// Example - Load configuration from environment:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	// cfg.Database.Path, cfg.Analytics.Window, etc. are now populated
//
// Thread Safety:
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	Database  DatabaseConfig  `koanf:"database"`
	Analytics AnalyticsConfig `koanf:"analytics"`
	Demo      DemoConfig      `koanf:"demo"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// DatabaseConfig holds DuckDB settings for the engagement store.
//
// Environment Variables:
//   - DUCKDB_PATH: Database file path, or ":memory:" (default: /data/convena.duckdb)
//   - DUCKDB_MAX_MEMORY: DuckDB memory limit (default: 2GB)
//   - DUCKDB_THREADS: Number of DuckDB threads, 0 = NumCPU (default: 0)
type DatabaseConfig struct {
	Path                   string `koanf:"path"`
	MaxMemory              string `koanf:"max_memory"`
	Threads                int    `koanf:"threads"`                  // Number of DuckDB threads (0 = use NumCPU)
	PreserveInsertionOrder bool   `koanf:"preserve_insertion_order"` // Whether to preserve insertion order (default true)
}

// AnalyticsConfig holds settings for the engagement analysis run.
//
// The model invariants (minimum active users, cluster count, epoch count,
// standardization epsilon) are fixed by the engine and intentionally not
// configurable; only operational knobs live here.
//
// Environment Variables:
//   - ANALYTICS_ORG_ID: Organization to analyze (required for CLI runs)
//   - ANALYTICS_WINDOW: Time window: 30d, 90d, all, custom (default: 90d)
//   - ANALYTICS_WINDOW_START: RFC3339 start, custom window only
//   - ANALYTICS_WINDOW_END: RFC3339 end, custom window only
//   - ANALYTICS_LEARNING_RATE: Classifier gradient step size (default: 0.1)
//   - ANALYTICS_SEED: RNG seed for weight initialization (default: 42)
//   - ANALYTICS_EXPORT_DIR: Directory for CSV exports (default: /data/exports)
type AnalyticsConfig struct {
	OrgID        string  `koanf:"org_id"`
	Window       string  `koanf:"window"`
	WindowStart  string  `koanf:"window_start"` // RFC3339, only read when Window == "custom"
	WindowEnd    string  `koanf:"window_end"`   // RFC3339, only read when Window == "custom"
	LearningRate float64 `koanf:"learning_rate"`
	Seed         int64   `koanf:"seed"`
	ExportDir    string  `koanf:"export_dir"`
}

// DemoConfig controls synthetic demo data seeding for first runs and CI.
//
// Environment Variables:
//   - DEMO_SEED: Seed demo data on startup if the store is empty (default: false)
//   - DEMO_MEMBERS: Members to generate (default: 40)
//   - DEMO_EVENTS: Events to generate (default: 6)
//   - DEMO_DAYS: How many days back the generated activity spreads (default: 60)
type DemoConfig struct {
	Seed    bool `koanf:"seed"`
	Members int  `koanf:"members"`
	Events  int  `koanf:"events"`
	Days    int  `koanf:"days"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// JSON is recommended for production (structured, machine-parseable).
	// Console is human-readable for development.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Adds slight performance overhead.
	// Default: false
	Caller bool `koanf:"caller"`
}

// CustomWindow returns the custom window bounds parsed from the configured
// RFC3339 strings. Valid only when Window == "custom"; Validate guarantees
// both parse and start precedes end before this is called.
func (a AnalyticsConfig) CustomWindow() (start, end time.Time, err error) {
	start, err = time.Parse(time.RFC3339, a.WindowStart)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse ANALYTICS_WINDOW_START: %w", err)
	}
	end, err = time.Parse(time.RFC3339, a.WindowEnd)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse ANALYTICS_WINDOW_END: %w", err)
	}
	return start, end, nil
}

// Load reads configuration using the layered Koanf loader.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
