// Convena - Community Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/convena

/*
schema.go - Database Schema Management

This file manages the DuckDB database schema including table creation
and index management for the engagement analytics queries.

Tables:
  - event_posts: Published community events (one row per event post)
  - org_members: Organization membership roster with active/inactive flag
  - event_rsvps: RSVP records linking members to event posts
  - interaction_logs: Append-only log of member interactions
    (view, like, poll, rsvp, register, feedback, evaluate)

Schema Strategy (Pre-Release):
All columns are defined in the initial CREATE TABLE statement. This provides:
  - Single source of truth for the complete schema
  - Faster startup (no migrations to run)
  - Cleaner codebase

Index Strategy:
Indexes cover the access paths of the analysis pipeline: events and
interactions are always filtered by organization and time window, members
by organization and active flag, RSVPs by organization and post.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	queries := db.getTableCreationQueries()

	for _, query := range queries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}

	return nil
}

// getTableCreationQueries returns the table creation SQL statements
func (db *DB) getTableCreationQueries() []string {
	return []string{
		// Event posts published by an organization. The analysis window
		// filters on created_at, so it is NOT NULL by construction.
		`CREATE TABLE IF NOT EXISTS event_posts (
			id BIGINT PRIMARY KEY,
			org_id TEXT NOT NULL,
			title TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		);`,

		// Membership roster. Inactive members stay on the roster but are
		// excluded from analysis.
		`CREATE TABLE IF NOT EXISTS org_members (
			user_id TEXT NOT NULL,
			org_id TEXT NOT NULL,
			display_name TEXT,
			is_active BOOLEAN NOT NULL DEFAULT true,
			joined_at TIMESTAMP NOT NULL,
			PRIMARY KEY (user_id, org_id)
		);`,

		// RSVP records. The primary key makes an RSVP idempotent per
		// member and post.
		`CREATE TABLE IF NOT EXISTS event_rsvps (
			user_id TEXT NOT NULL,
			post_id BIGINT NOT NULL,
			org_id TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			PRIMARY KEY (user_id, post_id)
		);`,

		// Append-only interaction log. The action column holds the kind
		// name (view, like, poll, rsvp, register, feedback, evaluate);
		// rows with unknown kinds are skipped at read time rather than
		// rejected at write time, so producers can add kinds first.
		`CREATE TABLE IF NOT EXISTS interaction_logs (
			id UUID PRIMARY KEY,
			user_id TEXT NOT NULL,
			org_id TEXT NOT NULL,
			action TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		);`,
	}
}

// createIndexes creates all database indexes
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	indexes := db.getIndexQueries()

	for _, query := range indexes {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute index query: %s: %w", query, err)
		}
	}

	return nil
}

// getIndexQueries returns index creation SQL statements
func (db *DB) getIndexQueries() []string {
	return []string{
		`CREATE INDEX IF NOT EXISTS idx_event_posts_org_created ON event_posts(org_id, created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_org_members_org_active ON org_members(org_id, is_active);`,
		`CREATE INDEX IF NOT EXISTS idx_event_rsvps_org_post ON event_rsvps(org_id, post_id);`,
		`CREATE INDEX IF NOT EXISTS idx_event_rsvps_user ON event_rsvps(user_id);`,
		`CREATE INDEX IF NOT EXISTS idx_interaction_logs_org_created ON interaction_logs(org_id, created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_interaction_logs_user_action ON interaction_logs(user_id, action);`,
	}
}
