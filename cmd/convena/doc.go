// Convena - Community Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/convena

/*
Package main is the entry point for the Convena analysis command.

Convena analyzes a community organization's engagement data: it aggregates
event posts, RSVPs and interaction logs into per-user features, trains an
RSVP-propensity classifier and an engagement clustering model, and writes a
JSON insight report plus an anonymized CSV export.

# Analysis Pipeline

The command runs the pipeline once and exits:

 1. Configuration: Koanf v2 with environment variables and optional config.yaml
 2. Database: DuckDB storage for events, members, RSVPs and interaction logs
 3. Demo seed (optional): deterministic synthetic community for evaluation
 4. Analysis session: feature aggregation, standardization, model training
 5. Reports: engagement_report.json and engagement_export.csv in the export
    directory

# Configuration

Configuration is loaded via Koanf v2 with layered sources (highest wins):
environment variables, then config.yaml, then built-in defaults.

Required:
  - ANALYTICS_ORG_ID: Organization to analyze

Common settings:
  - ANALYTICS_WINDOW: 30d, 90d, all, or custom (default: 90d)
  - ANALYTICS_WINDOW_START / ANALYTICS_WINDOW_END: RFC3339 bounds when
    ANALYTICS_WINDOW=custom
  - ANALYTICS_EXPORT_DIR: Report output directory (default: /data/exports)
  - DUCKDB_PATH: DuckDB file path (default: /data/convena.duckdb)
  - LOG_LEVEL / LOG_FORMAT: Logging verbosity and json/console output

Demo mode:
  - DEMO_SEED=true: Seed a synthetic community on startup when the
    organization's roster is empty
  - DEMO_MEMBERS / DEMO_EVENTS / DEMO_DAYS: Size of the generated community

# Exit Codes

  - 0: Analysis completed and reports were written
  - 1: Operational failure (configuration, storage, report writing)
  - 2: Not enough data to analyze; the log explains what was missing and the
    error suggests a longer window where that would help
  - 3: Model training failed on the available data

# Example Usage

Analyze a real organization over the last quarter:

	export ANALYTICS_ORG_ID=org_12345
	export ANALYTICS_WINDOW=90d
	export DUCKDB_PATH=/data/convena.duckdb
	./convena

Evaluate against a generated community:

	export ANALYTICS_ORG_ID=org-demo
	export ANALYTICS_WINDOW=all
	export DEMO_SEED=true
	./convena
*/
package main
