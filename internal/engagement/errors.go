// Convena - Community Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/convena

package engagement

import "fmt"

// Analysis failures are typed so callers can branch with errors.As while
// logs keep actionable text. Message prefixes are load-bearing: the
// metrics package classifies failed runs by them.

// DataUnavailableError reports that the organization published no event
// posts inside the selected window.
type DataUnavailableError struct {
	// OrgID is the organization analyzed.
	OrgID string

	// Window is the window kind the run used.
	Window string
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("no events found for organization %q in the %s window; try a longer window or confirm events were published", e.OrgID, e.Window)
}

// InsufficientMembersError reports that the organization has no active
// members to analyze.
type InsufficientMembersError struct {
	// OrgID is the organization analyzed.
	OrgID string
}

func (e *InsufficientMembersError) Error() string {
	return fmt.Sprintf("no active members found for organization %q; confirm membership records are marked active", e.OrgID)
}

// InsufficientActivityError reports that too few distinct active users
// recorded any activity inside the window.
type InsufficientActivityError struct {
	// ActiveUsers is the distinct active users found.
	ActiveUsers int

	// Required is the minimum needed to train.
	Required int
}

func (e *InsufficientActivityError) Error() string {
	return fmt.Sprintf("insufficient activity: found %d active users, need at least %d; try a longer window to capture more member activity", e.ActiveUsers, e.Required)
}

// TrainingFailureError reports a numeric failure inside model training.
// Stage names the pipeline stage that failed.
type TrainingFailureError struct {
	// Stage is "classifier" or "clustering".
	Stage string

	// Err is the underlying numeric failure.
	Err error
}

func (e *TrainingFailureError) Error() string {
	return fmt.Sprintf("training failed: %s %v", e.Stage, e.Err)
}

func (e *TrainingFailureError) Unwrap() error {
	return e.Err
}
