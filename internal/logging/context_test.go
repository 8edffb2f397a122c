// Convena - Community Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/convena

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestGenerateRunID(t *testing.T) {
	t.Parallel()

	id1 := GenerateRunID()
	id2 := GenerateRunID()

	if id1 == "" {
		t.Error("expected non-empty run id")
	}
	if len(id1) != 8 {
		t.Errorf("expected 8-character run id, got %d", len(id1))
	}
	if id1 == id2 {
		t.Error("expected unique run ids")
	}
}

func TestRunIDContext(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	// Without run id
	id := RunIDFromContext(ctx)
	if id != "" {
		t.Errorf("expected empty run id, got %s", id)
	}

	// With run id
	ctx = ContextWithRunID(ctx, "run-123")
	id = RunIDFromContext(ctx)
	if id != "run-123" {
		t.Errorf("expected 'run-123', got '%s'", id)
	}
}

func TestContextWithNewRunID(t *testing.T) {
	t.Parallel()

	ctx := ContextWithNewRunID(context.Background())

	if RunIDFromContext(ctx) == "" {
		t.Error("expected generated run id, got empty string")
	}
}

func TestCtxAddsRunID(t *testing.T) {
	var buf bytes.Buffer

	SetLogger(zerolog.New(&buf))

	ctx := ContextWithRunID(context.Background(), "abc12345")
	Ctx(ctx).Info().Msg("run message")

	output := buf.String()
	if !strings.Contains(output, `"run_id":"abc12345"`) {
		t.Errorf("expected run_id field in output: %s", output)
	}
	if !strings.Contains(output, "run message") {
		t.Errorf("expected message in output: %s", output)
	}
}

func TestCtxWithoutRunID(t *testing.T) {
	var buf bytes.Buffer

	SetLogger(zerolog.New(&buf))

	Ctx(context.Background()).Info().Msg("plain message")

	output := buf.String()
	if strings.Contains(output, "run_id") {
		t.Errorf("expected no run_id field in output: %s", output)
	}
}

func TestLoggerFromContext(t *testing.T) {
	var buf bytes.Buffer

	stored := zerolog.New(&buf).With().Str("source", "stored").Logger()
	ctx := ContextWithLogger(context.Background(), stored)

	logger := LoggerFromContext(ctx)
	logger.Info().Msg("stored logger message")

	output := buf.String()
	if !strings.Contains(output, "stored") {
		t.Errorf("expected stored logger fields in output: %s", output)
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer

	SetLogger(zerolog.New(&buf))

	logger := WithComponent("aggregator")
	logger.Info().Msg("component message")

	output := buf.String()
	if !strings.Contains(output, `"component":"aggregator"`) {
		t.Errorf("expected component field in output: %s", output)
	}
}
