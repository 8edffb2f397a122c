// Convena - Community Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/convena

package engagement

import (
	"strconv"
	"strings"
)

// exportEmptyPlaceholder is returned when no feature records exist.
const exportEmptyPlaceholder = "No data available for export"

// exportHeader lists the CSV columns in output order. The counter
// columns follow the classifier feature order.
var exportHeader = []string{
	"Member",
	"Event ID",
	"Event Name",
	"Views",
	"Likes",
	"Polls",
	"Feedbacks",
	"RSVPs",
	"Registers",
	"Evaluations",
	"RSVP Rate (%)",
	"Engagement Score",
	"Has RSVP",
}

// renderCSV renders the feature table for spreadsheet import. Every
// field is quoted so event titles with commas survive, with embedded
// quotes doubled per RFC 4180. The RSVP rate prints with two decimals.
// An empty table yields the placeholder string, never an empty file.
func renderCSV(records []EventFeatureRecord) string {
	if len(records) == 0 {
		return exportEmptyPlaceholder
	}

	var b strings.Builder
	b.Grow((len(records) + 1) * 96)
	writeCSVRow(&b, exportHeader)

	fields := make([]string, len(exportHeader))
	for i := range records {
		rec := &records[i]
		fields[0] = rec.AnonymizedUserID
		fields[1] = strconv.FormatInt(rec.EventID, 10)
		fields[2] = rec.EventName
		fields[3] = strconv.Itoa(rec.Views)
		fields[4] = strconv.Itoa(rec.Likes)
		fields[5] = strconv.Itoa(rec.Polls)
		fields[6] = strconv.Itoa(rec.Feedbacks)
		fields[7] = strconv.Itoa(rec.RSVPs)
		fields[8] = strconv.Itoa(rec.Registers)
		fields[9] = strconv.Itoa(rec.Evaluations)
		fields[10] = strconv.FormatFloat(rec.RSVPRate, 'f', 2, 64)
		fields[11] = strconv.FormatFloat(rec.EngagementScore, 'f', -1, 64)
		fields[12] = yesNo(rec.HasRSVP)
		b.WriteByte('\n')
		writeCSVRow(&b, fields)
	}
	return b.String()
}

// writeCSVRow appends one comma-joined row with every field quoted.
func writeCSVRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
