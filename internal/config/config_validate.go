// Convena - Community Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/convena

package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks the loaded configuration for invalid or inconsistent values.
func (c *Config) Validate() error {
	if err := c.validateDatabase(); err != nil {
		return err
	}

	if err := c.validateAnalytics(); err != nil {
		return err
	}

	if err := c.validateDemo(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateDatabase validates the DuckDB settings.
func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH must not be empty (use \":memory:\" for an in-memory store)")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be >= 0 (0 = use all CPUs)")
	}
	return nil
}

// validWindows lists the accepted ANALYTICS_WINDOW selectors.
var validWindows = []string{"30d", "90d", "all", "custom"}

// validateAnalytics validates the analysis run settings.
func (c *Config) validateAnalytics() error {
	if err := c.validateWindow(); err != nil {
		return err
	}
	if c.Analytics.LearningRate <= 0 || c.Analytics.LearningRate > 1 {
		return fmt.Errorf("ANALYTICS_LEARNING_RATE must be in (0, 1], got %g", c.Analytics.LearningRate)
	}
	return nil
}

// validateWindow validates the time window selector and custom bounds.
func (c *Config) validateWindow() error {
	window := c.Analytics.Window

	valid := false
	for _, w := range validWindows {
		if window == w {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("ANALYTICS_WINDOW must be one of %s, got %q",
			strings.Join(validWindows, ", "), window)
	}

	if window != "custom" {
		return nil
	}

	if c.Analytics.WindowStart == "" || c.Analytics.WindowEnd == "" {
		return fmt.Errorf("ANALYTICS_WINDOW_START and ANALYTICS_WINDOW_END are required when ANALYTICS_WINDOW=custom")
	}

	start, err := time.Parse(time.RFC3339, c.Analytics.WindowStart)
	if err != nil {
		return fmt.Errorf("ANALYTICS_WINDOW_START is not valid RFC3339: %w", err)
	}
	end, err := time.Parse(time.RFC3339, c.Analytics.WindowEnd)
	if err != nil {
		return fmt.Errorf("ANALYTICS_WINDOW_END is not valid RFC3339: %w", err)
	}
	if !start.Before(end) {
		return fmt.Errorf("ANALYTICS_WINDOW_START must precede ANALYTICS_WINDOW_END")
	}

	return nil
}

// validateDemo validates the demo seeding knobs.
func (c *Config) validateDemo() error {
	if !c.Demo.Seed {
		return nil
	}
	if c.Demo.Members < 1 {
		return fmt.Errorf("DEMO_MEMBERS must be >= 1 when DEMO_SEED=true")
	}
	if c.Demo.Events < 1 {
		return fmt.Errorf("DEMO_EVENTS must be >= 1 when DEMO_SEED=true")
	}
	if c.Demo.Days < 1 {
		return fmt.Errorf("DEMO_DAYS must be >= 1 when DEMO_SEED=true")
	}
	return nil
}

// validateLogging validates the logging settings.
func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a recognized level", c.Logging.Level)
	}

	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}

	return nil
}
