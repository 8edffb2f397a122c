// Convena - Community Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/convena

package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/convena/internal/engagement"
	"github.com/tomtom215/convena/internal/logging"
	"github.com/tomtom215/convena/internal/metrics"
)

// GetEventPosts returns the event posts an organization published inside the
// window, oldest first. The start bound is inclusive and the end bound
// exclusive. A zero start matches all history; year 1 predates every row.
func (db *DB) GetEventPosts(ctx context.Context, orgID string, start, end time.Time) (_ []engagement.EventPost, err error) {
	defer func(begin time.Time) {
		metrics.RecordDBQuery("select", "event_posts", time.Since(begin), err)
	}(time.Now())

	query := `
		SELECT id, title, created_at
		FROM event_posts
		WHERE org_id = ?
		  AND created_at >= ?
		  AND created_at < ?
		ORDER BY created_at, id
	`

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, query, orgID, start, end)
	if err != nil {
		return nil, fmt.Errorf("query event posts: %w", err)
	}
	defer rows.Close()

	var posts []engagement.EventPost
	for rows.Next() {
		var (
			id        int64
			title     string
			createdAt time.Time
		)

		if err := rows.Scan(&id, &title, &createdAt); err != nil {
			return nil, fmt.Errorf("scan event post: %w", err)
		}

		posts = append(posts, engagement.EventPost{
			ID:        id,
			Title:     title,
			CreatedAt: createdAt,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event posts: %w", err)
	}

	return posts, nil
}

// GetOrgMembers returns the active membership roster for an organization.
// Inactive members are filtered here so the analysis never sees them.
func (db *DB) GetOrgMembers(ctx context.Context, orgID string) (_ []engagement.Member, err error) {
	defer func(begin time.Time) {
		metrics.RecordDBQuery("select", "org_members", time.Since(begin), err)
	}(time.Now())

	query := `
		SELECT user_id, is_active
		FROM org_members
		WHERE org_id = ?
		  AND is_active
		ORDER BY joined_at, user_id
	`

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("query org members: %w", err)
	}
	defer rows.Close()

	var members []engagement.Member
	for rows.Next() {
		var (
			userID   string
			isActive bool
		)

		if err := rows.Scan(&userID, &isActive); err != nil {
			return nil, fmt.Errorf("scan org member: %w", err)
		}

		members = append(members, engagement.Member{
			UserID:   userID,
			IsActive: isActive,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate org members: %w", err)
	}

	return members, nil
}

// GetEventRSVPs returns the RSVP records for the given event posts.
// An empty post list short-circuits to no rows.
func (db *DB) GetEventRSVPs(ctx context.Context, orgID string, postIDs []int64) (_ []engagement.RSVP, err error) {
	if len(postIDs) == 0 {
		return nil, nil
	}

	defer func(begin time.Time) {
		metrics.RecordDBQuery("select", "event_rsvps", time.Since(begin), err)
	}(time.Now())

	placeholders := strings.Repeat("?,", len(postIDs)-1) + "?"
	query := fmt.Sprintf(`
		SELECT user_id, post_id, created_at
		FROM event_rsvps
		WHERE org_id = ?
		  AND post_id IN (%s)
		ORDER BY created_at, user_id
	`, placeholders)

	args := make([]interface{}, 0, len(postIDs)+1)
	args = append(args, orgID)
	for _, id := range postIDs {
		args = append(args, id)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query event rsvps: %w", err)
	}
	defer rows.Close()

	var rsvps []engagement.RSVP
	for rows.Next() {
		var (
			userID    string
			postID    int64
			createdAt time.Time
		)

		if err := rows.Scan(&userID, &postID, &createdAt); err != nil {
			return nil, fmt.Errorf("scan event rsvp: %w", err)
		}

		rsvps = append(rsvps, engagement.RSVP{
			UserID:    userID,
			PostID:    postID,
			CreatedAt: createdAt,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event rsvps: %w", err)
	}

	return rsvps, nil
}

// GetInteractionLogs returns the interaction log rows for an organization
// inside the window, ordered by timestamp. Rows whose action column does not
// parse to a known kind are skipped and counted, not treated as errors, so a
// producer that writes a new kind does not break analysis of the old ones.
func (db *DB) GetInteractionLogs(ctx context.Context, orgID string, start, end time.Time) (_ []engagement.RawInteractionEvent, err error) {
	defer func(begin time.Time) {
		metrics.RecordDBQuery("select", "interaction_logs", time.Since(begin), err)
	}(time.Now())

	query := `
		SELECT user_id, org_id, action, created_at
		FROM interaction_logs
		WHERE org_id = ?
		  AND created_at >= ?
		  AND created_at < ?
		ORDER BY created_at, id
	`

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, query, orgID, start, end)
	if err != nil {
		return nil, fmt.Errorf("query interaction logs: %w", err)
	}
	defer rows.Close()

	var (
		events  []engagement.RawInteractionEvent
		skipped int
	)
	for rows.Next() {
		var (
			userID    string
			rowOrgID  string
			action    string
			createdAt time.Time
		)

		if err := rows.Scan(&userID, &rowOrgID, &action, &createdAt); err != nil {
			return nil, fmt.Errorf("scan interaction log: %w", err)
		}

		kind, ok := engagement.ParseActionKind(action)
		if !ok {
			skipped++
			continue
		}

		events = append(events, engagement.RawInteractionEvent{
			UserID:    userID,
			OrgID:     rowOrgID,
			Action:    kind,
			Timestamp: createdAt,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interaction logs: %w", err)
	}

	if skipped > 0 {
		logging.Debug().
			Str("org_id", orgID).
			Int("skipped", skipped).
			Msg("Skipped interaction rows with unknown action kinds")
	}

	return events, nil
}

// EngagementDataProvider adapts the database to the engagement analysis
// engine's data provider interface.
//
// This adapter lives in the database package (not engagement) to avoid
// circular imports: engagement defines the interface, database implements it.
type EngagementDataProvider struct {
	db *DB
}

// NewEngagementDataProvider creates a data provider backed by the database
func NewEngagementDataProvider(db *DB) *EngagementDataProvider {
	return &EngagementDataProvider{db: db}
}

// EventPosts returns event posts for the organization within the window
func (p *EngagementDataProvider) EventPosts(ctx context.Context, orgID string, start, end time.Time) ([]engagement.EventPost, error) {
	return p.db.GetEventPosts(ctx, orgID, start, end)
}

// Members returns the organization's active membership roster
func (p *EngagementDataProvider) Members(ctx context.Context, orgID string) ([]engagement.Member, error) {
	return p.db.GetOrgMembers(ctx, orgID)
}

// EventRSVPs returns RSVP records for the given event posts
func (p *EngagementDataProvider) EventRSVPs(ctx context.Context, orgID string, postIDs []int64) ([]engagement.RSVP, error) {
	return p.db.GetEventRSVPs(ctx, orgID, postIDs)
}

// InteractionLogs returns interaction rows for the organization within the window
func (p *EngagementDataProvider) InteractionLogs(ctx context.Context, orgID string, start, end time.Time) ([]engagement.RawInteractionEvent, error) {
	return p.db.GetInteractionLogs(ctx, orgID, start, end)
}

// Ensure interface compliance.
var _ engagement.DataProvider = (*EngagementDataProvider)(nil)
