// Convena - Community Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/convena

package database

import (
	"context"
	"io"
	"testing"

	"github.com/tomtom215/convena/internal/config"
	"github.com/tomtom215/convena/internal/engagement"
	"github.com/tomtom215/convena/internal/logging"
)

func countRows(t *testing.T, db *DB, query string, args ...interface{}) int {
	t.Helper()

	var n int
	if err := db.Conn().QueryRowContext(context.Background(), query, args...).Scan(&n); err != nil {
		t.Fatalf("count query %q: %v", query, err)
	}
	return n
}

func TestSeedDemoData(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	cfg := &config.DemoConfig{Members: 15, Events: 5, Days: 30}

	if err := db.SeedDemoData(ctx, "org-demo", cfg); err != nil {
		t.Fatalf("SeedDemoData: %v", err)
	}

	if got := countRows(t, db, `SELECT COUNT(*) FROM org_members WHERE org_id = ? AND is_active`, "org-demo"); got != 15 {
		t.Errorf("expected 15 active members, got %d", got)
	}
	// One inactive member per ten requested.
	if got := countRows(t, db, `SELECT COUNT(*) FROM org_members WHERE org_id = ?`, "org-demo"); got != 16 {
		t.Errorf("expected 16 total members, got %d", got)
	}
	if got := countRows(t, db, `SELECT COUNT(*) FROM event_posts WHERE org_id = ?`, "org-demo"); got != 5 {
		t.Errorf("expected 5 event posts, got %d", got)
	}
	if got := countRows(t, db, `SELECT COUNT(*) FROM interaction_logs WHERE org_id = ?`, "org-demo"); got < 15 {
		t.Errorf("expected at least one interaction per active member, got %d", got)
	}

	// Every seeded action kind must round-trip through the parser, or the
	// read path would silently drop it.
	rows, err := db.Conn().QueryContext(ctx, `SELECT DISTINCT action FROM interaction_logs WHERE org_id = ?`, "org-demo")
	if err != nil {
		t.Fatalf("query distinct actions: %v", err)
	}
	defer rows.Close()
	for rows.Next() {
		var action string
		if err := rows.Scan(&action); err != nil {
			t.Fatalf("scan action: %v", err)
		}
		if _, ok := engagement.ParseActionKind(action); !ok {
			t.Errorf("seeded action %q does not parse", action)
		}
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("iterate actions: %v", err)
	}

	// RSVPs only reference seeded posts.
	if got := countRows(t, db, `SELECT COUNT(*) FROM event_rsvps WHERE org_id = ? AND (post_id < 1 OR post_id > 5)`, "org-demo"); got != 0 {
		t.Errorf("found %d rsvps referencing unknown posts", got)
	}
}

func TestSeedDemoData_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	cfg := &config.DemoConfig{Members: 15, Events: 5, Days: 30}

	if err := db.SeedDemoData(ctx, "org-demo", cfg); err != nil {
		t.Fatalf("first seed: %v", err)
	}

	members := countRows(t, db, `SELECT COUNT(*) FROM org_members WHERE org_id = ?`, "org-demo")
	interactions := countRows(t, db, `SELECT COUNT(*) FROM interaction_logs WHERE org_id = ?`, "org-demo")

	if err := db.SeedDemoData(ctx, "org-demo", cfg); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	if got := countRows(t, db, `SELECT COUNT(*) FROM org_members WHERE org_id = ?`, "org-demo"); got != members {
		t.Errorf("member count changed on reseed: %d -> %d", members, got)
	}
	if got := countRows(t, db, `SELECT COUNT(*) FROM interaction_logs WHERE org_id = ?`, "org-demo"); got != interactions {
		t.Errorf("interaction count changed on reseed: %d -> %d", interactions, got)
	}
}

func TestSeedDemoData_RaisesTinyCommunity(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	cfg := &config.DemoConfig{Members: 5, Events: 3, Days: 14}
	if err := db.SeedDemoData(context.Background(), "org-tiny", cfg); err != nil {
		t.Fatalf("SeedDemoData: %v", err)
	}

	// 5 requested members is below the analysis minimum; the seeder raises
	// the roster so the demo can actually run.
	if got := countRows(t, db, `SELECT COUNT(*) FROM org_members WHERE org_id = ? AND is_active`, "org-tiny"); got != 12 {
		t.Errorf("expected roster raised to 12 active members, got %d", got)
	}
}

func TestSeedDemoData_Defaults(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := db.SeedDemoData(context.Background(), "org-demo", &config.DemoConfig{}); err != nil {
		t.Fatalf("SeedDemoData: %v", err)
	}

	if got := countRows(t, db, `SELECT COUNT(*) FROM org_members WHERE org_id = ? AND is_active`, "org-demo"); got != 40 {
		t.Errorf("expected 40 active members by default, got %d", got)
	}
	if got := countRows(t, db, `SELECT COUNT(*) FROM event_posts WHERE org_id = ?`, "org-demo"); got != 6 {
		t.Errorf("expected 6 event posts by default, got %d", got)
	}
}

func TestSeedDemoData_ThenAnalyze(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	if err := db.SeedDemoData(ctx, "org-demo", &config.DemoConfig{}); err != nil {
		t.Fatalf("SeedDemoData: %v", err)
	}

	session, err := engagement.NewSession(
		engagement.DefaultSessionConfig(),
		engagement.AnalysisRequest{
			OrgID:  "org-demo",
			Window: engagement.Window{Kind: engagement.WindowAll},
		},
		NewEngagementDataProvider(db),
		logging.NewTestLogger(io.Discard),
	)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	if err := session.TrainModels(ctx, nil); err != nil {
		t.Fatalf("TrainModels over seeded data: %v", err)
	}

	summary := session.Summary()
	if summary.EventCount != 6 {
		t.Errorf("expected 6 events, got %d", summary.EventCount)
	}
	if summary.ActiveUserCount != 40 {
		t.Errorf("expected 40 analyzed users, got %d", summary.ActiveUserCount)
	}
	if len(session.UserPredictions()) != 40 {
		t.Errorf("expected 40 predictions, got %d", len(session.UserPredictions()))
	}

	thresholds := session.DynamicThresholds()
	if thresholds.High < thresholds.Medium {
		t.Errorf("high threshold %f below medium %f", thresholds.High, thresholds.Medium)
	}
}
