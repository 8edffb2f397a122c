// Convena - Community Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/convena

package engagement

import (
	"encoding/csv"
	"strings"
	"testing"
)

func TestRenderCSV_Empty(t *testing.T) {
	t.Parallel()

	if got := renderCSV(nil); got != "No data available for export" {
		t.Errorf("renderCSV(nil) = %q, want placeholder", got)
	}
	if got := renderCSV([]EventFeatureRecord{}); got != exportEmptyPlaceholder {
		t.Errorf("renderCSV(empty) = %q, want placeholder", got)
	}
}

func TestRenderCSV_ThreeRows(t *testing.T) {
	t.Parallel()

	records := []EventFeatureRecord{
		{
			AnonymizedUserID: "User_1", EventID: 7, EventName: "Kickoff",
			Views: 4, Likes: 2, Polls: 1, Feedbacks: 0, RSVPs: 1, Registers: 0, Evaluations: 1,
			RSVPRate: 33.333333, EngagementScore: 95, HasRSVP: true,
		},
		{
			AnonymizedUserID: "User_2", EventID: 7, EventName: "Kickoff",
			Views: 1, RSVPRate: 0, EngagementScore: 1, HasRSVP: false,
		},
		{
			AnonymizedUserID: "User_3", EventID: 7, EventName: "Kickoff",
			Views: 2, Likes: 1, RSVPRate: 100, EngagementScore: 7, HasRSVP: true,
		},
	}

	out := renderCSV(records)
	lines := strings.Split(out, "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4 (header + 3 rows)", len(lines))
	}

	for i, line := range lines {
		fields := strings.Split(line, ",")
		if len(fields) != 13 {
			t.Fatalf("line %d has %d fields, want 13: %s", i, len(fields), line)
		}
		for j, f := range fields {
			if !strings.HasPrefix(f, `"`) || !strings.HasSuffix(f, `"`) {
				t.Errorf("line %d field %d not quoted: %s", i, j, f)
			}
		}
	}

	if lines[0] != `"Member","Event ID","Event Name","Views","Likes","Polls","Feedbacks","RSVPs","Registers","Evaluations","RSVP Rate (%)","Engagement Score","Has RSVP"` {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[1], `"33.33"`) {
		t.Errorf("RSVP rate not rendered with two decimals: %s", lines[1])
	}
	if !strings.Contains(lines[2], `"0.00"`) {
		t.Errorf("zero rate not rendered as 0.00: %s", lines[2])
	}
	if !strings.Contains(lines[1], `"Yes"`) || !strings.Contains(lines[2], `"No"`) {
		t.Error("HasRSVP not rendered as Yes/No")
	}
	if !strings.Contains(lines[1], `"95"`) {
		t.Errorf("whole engagement score not rendered bare: %s", lines[1])
	}
}

func TestRenderCSV_ParsesAsCSV(t *testing.T) {
	t.Parallel()

	records := []EventFeatureRecord{
		{
			AnonymizedUserID: "User_1",
			EventID:          12,
			EventName:        `Annual "Gala", Dinner & Auction`,
			Views:            3,
			RSVPRate:         50,
			EngagementScore:  3,
			HasRSVP:          true,
		},
	}

	out := renderCSV(records)
	reader := csv.NewReader(strings.NewReader(out))
	rows, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("parsed %d rows, want 2", len(rows))
	}
	for i, row := range rows {
		if len(row) != 13 {
			t.Errorf("row %d has %d fields, want 13", i, len(row))
		}
	}
	if rows[1][2] != `Annual "Gala", Dinner & Auction` {
		t.Errorf("event name mangled: %q", rows[1][2])
	}
	if rows[1][10] != "50.00" {
		t.Errorf("rate field = %q, want 50.00", rows[1][10])
	}
}

func TestRenderCSV_NoTrailingNewline(t *testing.T) {
	t.Parallel()

	records := []EventFeatureRecord{{AnonymizedUserID: "User_1", EventID: 1, EventName: "Kickoff"}}
	out := renderCSV(records)
	if strings.HasSuffix(out, "\n") {
		t.Error("export ends with a trailing newline")
	}
}
