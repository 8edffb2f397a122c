// Convena - Community Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/convena

package database

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/convena/internal/config"
)

// testDBSemaphore limits concurrent database creation to prevent resource
// exhaustion in CI. Too many concurrent DuckDB CGO calls can hang, so the
// semaphore fully serializes tests that hold a connection.
var testDBSemaphore = make(chan struct{}, 1)

// testDBMutex serializes the New() call itself.
var testDBMutex sync.Mutex

// acquireTestDB takes the semaphore for the whole test lifecycle.
// Held until the test completes so only one test has an active DuckDB
// connection at a time.
func acquireTestDB(t *testing.T) {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() {
		<-testDBSemaphore
	})
}

// setupTestDB creates a new in-memory test database with timeout protection.
// The 120-second timeout fails fast if DuckDB hangs during connection instead
// of letting the whole test run time out.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	acquireTestDB(t)

	cfg := &config.DatabaseConfig{
		Path:      ":memory:",
		MaxMemory: "1GB", // Standard memory for unit tests
	}

	type result struct {
		db  *DB
		err error
	}

	resultCh := make(chan result, 1)
	go func() {
		testDBMutex.Lock()
		db, err := New(cfg)
		testDBMutex.Unlock()
		resultCh <- result{db: db, err: err}
	}()

	select {
	case res := <-resultCh:
		if res.err != nil {
			t.Fatalf("Failed to create test database: %v", res.err)
		}
		return res.db
	case <-time.After(120 * time.Second):
		t.Fatalf("Timeout: database creation took longer than 120s (DuckDB may be under resource pressure)")
		return nil
	}
}

func TestNew_CreatesSchema(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()

	rows, err := db.Conn().QueryContext(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_name IN ('event_posts', 'org_members', 'event_rsvps', 'interaction_logs')
		ORDER BY table_name
	`)
	if err != nil {
		t.Fatalf("query information_schema: %v", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("scan table name: %v", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("iterate table names: %v", err)
	}

	want := []string{"event_posts", "event_rsvps", "interaction_logs", "org_members"}
	if len(tables) != len(want) {
		t.Fatalf("expected %d tables, got %d: %v", len(want), len(tables), tables)
	}
	for i, name := range want {
		if tables[i] != name {
			t.Errorf("table %d: expected %q, got %q", i, name, tables[i])
		}
	}
}

func TestNew_CreatesDatabaseDirectory(t *testing.T) {
	acquireTestDB(t)

	dir := filepath.Join(t.TempDir(), "nested", "deeper")
	cfg := &config.DatabaseConfig{
		Path:      filepath.Join(dir, "convena.db"),
		MaxMemory: "1GB",
	}

	db, err := New(cfg)
	if err != nil {
		t.Fatalf("New with nested path: %v", err)
	}
	defer db.Close()

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("stat created directory: %v", err)
	}
	if !info.IsDir() {
		t.Fatalf("expected %s to be a directory", dir)
	}
}

func TestClose_DataSurvivesReopen(t *testing.T) {
	acquireTestDB(t)

	path := filepath.Join(t.TempDir(), "convena.db")
	cfg := &config.DatabaseConfig{
		Path:      path,
		MaxMemory: "1GB",
	}

	db, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := context.Background()
	_, err = db.Conn().ExecContext(ctx,
		`INSERT INTO event_posts (id, org_id, title, created_at) VALUES (?, ?, ?, ?)`,
		int64(1), "org-close", "Lisbon Meetup", time.Now().UTC())
	if err != nil {
		db.Close()
		t.Fatalf("insert: %v", err)
	}

	if err := db.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := New(cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	var count int
	err = reopened.Conn().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM event_posts WHERE org_id = ?`, "org-close").Scan(&count)
	if err != nil {
		t.Fatalf("count after reopen: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 row after reopen, got %d", count)
	}
}

func TestPing_Success(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Ping(ctx); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestCheckpoint(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.Checkpoint(ctx); err != nil {
		t.Errorf("Checkpoint failed: %v", err)
	}
}
