// Convena - Community Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/convena

package engagement

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// MinActiveUsers is the minimum number of distinct active users with
// recorded activity required before models will train.
const MinActiveUsers = 10

// classifierFeatures is the width of the classifier input vector.
const classifierFeatures = 7

// DataProvider supplies the raw rows an analysis run aggregates.
//
// Note: This package has no dependency on the database package. The
// interface lives here so the store can implement it without creating
// circular imports, and so tests can substitute in-memory fixtures.
// Implementations must treat every call as read-only.
type DataProvider interface {
	// EventPosts returns the organization's event posts inside the
	// window. A zero start means unbounded history.
	EventPosts(ctx context.Context, orgID string, start, end time.Time) ([]EventPost, error)

	// Members returns the organization's membership rows.
	// Implementations may pre-filter to active rows; the engine filters
	// on IsActive either way.
	Members(ctx context.Context, orgID string) ([]Member, error)

	// EventRSVPs returns RSVPs to the given event posts.
	EventRSVPs(ctx context.Context, orgID string, postIDs []int64) ([]RSVP, error)

	// InteractionLogs returns interaction log rows inside the window,
	// ordered by timestamp.
	InteractionLogs(ctx context.Context, orgID string, start, end time.Time) ([]RawInteractionEvent, error)
}

// featureTable is the assembled input for one run: the cross join of
// events and enumerated users plus the per-user aggregates behind it.
type featureTable struct {
	events  []EventPost
	users   []UserAggregate
	records []EventFeatureRecord

	// totalInteractions counts the interaction log rows that landed in
	// a counter. The data quality grade reads it.
	totalInteractions int
}

// buildFeatureTable aggregates raw rows into the run's feature table.
//
// The steps run in a fixed order so each failure mode surfaces before
// any heavier work: no events, then no active members, then not enough
// distinct activity. RSVPs and interaction rows from inactive or
// unknown members are dropped rather than failing the run.
func buildFeatureTable(ctx context.Context, provider DataProvider, req AnalysisRequest, now time.Time, logger zerolog.Logger) (*featureTable, error) {
	start, end := req.Window.Bounds(now)

	events, err := provider.EventPosts(ctx, req.OrgID, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch event posts: %w", err)
	}
	if len(events) == 0 {
		return nil, &DataUnavailableError{OrgID: req.OrgID, Window: req.Window.Kind}
	}

	members, err := provider.Members(ctx, req.OrgID)
	if err != nil {
		return nil, fmt.Errorf("fetch members: %w", err)
	}
	active := activeMemberSet(members)
	if len(active) == 0 {
		return nil, &InsufficientMembersError{OrgID: req.OrgID}
	}

	rsvps, err := provider.EventRSVPs(ctx, req.OrgID, eventIDs(events))
	if err != nil {
		return nil, fmt.Errorf("fetch rsvps: %w", err)
	}
	rsvpsByUser := filterRSVPs(rsvps, active)

	logs, err := provider.InteractionLogs(ctx, req.OrgID, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch interaction logs: %w", err)
	}
	users, total := aggregateInteractions(logs, active)
	if len(users) < MinActiveUsers {
		return nil, &InsufficientActivityError{ActiveUsers: len(users), Required: MinActiveUsers}
	}

	finalizeAggregates(users, rsvpsByUser, len(events))

	table := &featureTable{
		events:            events,
		users:             users,
		records:           crossJoin(events, users, rsvpsByUser),
		totalInteractions: total,
	}

	logger.Debug().
		Int("events", len(events)).
		Int("active_members", len(active)).
		Int("active_users", len(users)).
		Int("rsvps", len(rsvps)).
		Int("interactions", total).
		Int("feature_records", len(table.records)).
		Msg("feature table assembled")

	return table, nil
}

// activeMemberSet collects the user ids of active membership rows.
func activeMemberSet(members []Member) map[string]struct{} {
	set := make(map[string]struct{}, len(members))
	for _, m := range members {
		if !m.IsActive {
			continue
		}
		set[m.UserID] = struct{}{}
	}
	return set
}

// eventIDs extracts the post ids in fetch order.
func eventIDs(events []EventPost) []int64 {
	ids := make([]int64, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	return ids
}

// filterRSVPs keeps RSVPs from active members, keyed by user id. The
// inner set holds the post ids each member responded to, so repeat
// RSVPs to the same post collapse to one.
func filterRSVPs(rsvps []RSVP, active map[string]struct{}) map[string]map[int64]struct{} {
	byUser := make(map[string]map[int64]struct{})
	for _, r := range rsvps {
		if _, ok := active[r.UserID]; !ok {
			continue
		}
		posts, ok := byUser[r.UserID]
		if !ok {
			posts = make(map[int64]struct{})
			byUser[r.UserID] = posts
		}
		posts[r.PostID] = struct{}{}
	}
	return byUser
}

// aggregateInteractions rolls interaction log rows up into per-user
// counters and returns the aggregates plus the counted row total. Users
// keep the order they first appear in the log, which makes alias
// assignment deterministic for a given fetch order.
func aggregateInteractions(logs []RawInteractionEvent, active map[string]struct{}) ([]UserAggregate, int) {
	index := make(map[string]int)
	users := make([]UserAggregate, 0, len(active))
	total := 0

	for _, row := range logs {
		if _, ok := active[row.UserID]; !ok {
			continue
		}
		if row.Action < ActionView || row.Action > ActionEvaluate {
			continue
		}
		i, ok := index[row.UserID]
		if !ok {
			i = len(users)
			index[row.UserID] = i
			users = append(users, UserAggregate{UserID: row.UserID})
		}
		switch row.Action {
		case ActionView:
			users[i].Views++
		case ActionLike:
			users[i].Likes++
		case ActionPoll:
			users[i].Polls++
		case ActionRSVP:
			users[i].RSVPs++
		case ActionRegister:
			users[i].Registers++
		case ActionFeedback:
			users[i].Feedbacks++
		case ActionEvaluate:
			users[i].Evaluations++
		}
		total++
	}

	return users, total
}

// finalizeAggregates assigns aliases and computes each user's RSVP rate
// and engagement score. Aliases are sequential in enumeration order and
// are only meaningful within the current run.
func finalizeAggregates(users []UserAggregate, rsvpsByUser map[string]map[int64]struct{}, eventCount int) {
	for i := range users {
		u := &users[i]
		u.AnonymizedID = fmt.Sprintf("User_%d", i+1)
		if eventCount > 0 {
			u.RSVPRate = float64(len(rsvpsByUser[u.UserID])) / float64(eventCount) * 100
		}
		u.EngagementScore = engagementScore(u)
	}
}

// engagementScore sums the fixed action weights over the counters.
// The rsvps counter contributes nothing; RSVPs feed the label.
func engagementScore(u *UserAggregate) float64 {
	return float64(u.Views)*ActionView.Weight() +
		float64(u.Likes)*ActionLike.Weight() +
		float64(u.Polls)*ActionPoll.Weight() +
		float64(u.Feedbacks)*ActionFeedback.Weight() +
		float64(u.Registers)*ActionRegister.Weight() +
		float64(u.Evaluations)*ActionEvaluate.Weight()
}

// crossJoin pairs every event with every enumerated user. Event order
// follows the fetch order and user order follows enumeration order, so
// the record layout is deterministic for a given fetch.
func crossJoin(events []EventPost, users []UserAggregate, rsvpsByUser map[string]map[int64]struct{}) []EventFeatureRecord {
	records := make([]EventFeatureRecord, 0, len(events)*len(users))
	for _, e := range events {
		for i := range users {
			u := &users[i]
			_, hasRSVP := rsvpsByUser[u.UserID][e.ID]
			records = append(records, EventFeatureRecord{
				AnonymizedUserID: u.AnonymizedID,
				EventID:          e.ID,
				EventName:        e.Title,
				Views:            u.Views,
				Likes:            u.Likes,
				Polls:            u.Polls,
				Feedbacks:        u.Feedbacks,
				RSVPs:            u.RSVPs,
				Registers:        u.Registers,
				Evaluations:      u.Evaluations,
				RSVPRate:         u.RSVPRate,
				EngagementScore:  u.EngagementScore,
				HasRSVP:          hasRSVP,
				Cluster:          -1,
			})
		}
	}
	return records
}

// fillFeatureVector packs the record's counters into dst using the
// fixed classifier order: views, likes, polls, feedbacks, rsvps,
// registers, evaluations. dst must have classifierFeatures elements.
func (r *EventFeatureRecord) fillFeatureVector(dst []float64) {
	dst[0] = float64(r.Views)
	dst[1] = float64(r.Likes)
	dst[2] = float64(r.Polls)
	dst[3] = float64(r.Feedbacks)
	dst[4] = float64(r.RSVPs)
	dst[5] = float64(r.Registers)
	dst[6] = float64(r.Evaluations)
}

// featureVector returns a fresh feature slice for the record.
func (r *EventFeatureRecord) featureVector() []float64 {
	vec := make([]float64, classifierFeatures)
	r.fillFeatureVector(vec)
	return vec
}
