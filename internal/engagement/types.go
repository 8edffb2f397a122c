// Convena - Community Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/convena

package engagement

import "time"

// ActionKind categorizes a raw interaction event.
type ActionKind int

const (
	// ActionView is a passive content view.
	ActionView ActionKind = iota
	// ActionLike is a reaction to a post.
	ActionLike
	// ActionPoll is a poll response.
	ActionPoll
	// ActionRSVP is an RSVP action recorded in the interaction log.
	ActionRSVP
	// ActionRegister is a completed event registration.
	ActionRegister
	// ActionFeedback is a free-form feedback submission.
	ActionFeedback
	// ActionEvaluate is a structured post-event evaluation.
	ActionEvaluate
)

// String returns a human-readable name for the action kind.
func (a ActionKind) String() string {
	switch a {
	case ActionView:
		return "view"
	case ActionLike:
		return "like"
	case ActionPoll:
		return "poll"
	case ActionRSVP:
		return "rsvp"
	case ActionRegister:
		return "register"
	case ActionFeedback:
		return "feedback"
	case ActionEvaluate:
		return "evaluate"
	default:
		return "unknown"
	}
}

// Weight returns the action's contribution to the engagement score.
// RSVP actions carry zero weight; they feed the prediction label instead.
func (a ActionKind) Weight() float64 {
	switch a {
	case ActionView:
		return 1
	case ActionLike:
		return 5
	case ActionPoll:
		return 10
	case ActionFeedback:
		return 20
	case ActionRegister:
		return 20
	case ActionEvaluate:
		return 50
	default:
		return 0
	}
}

// ParseActionKind maps a stored action string to its ActionKind.
// The second return value is false for unrecognized strings.
func ParseActionKind(s string) (ActionKind, bool) {
	switch s {
	case "view":
		return ActionView, true
	case "like":
		return ActionLike, true
	case "poll":
		return ActionPoll, true
	case "rsvp":
		return ActionRSVP, true
	case "register":
		return ActionRegister, true
	case "feedback":
		return ActionFeedback, true
	case "evaluate":
		return ActionEvaluate, true
	default:
		return 0, false
	}
}

// RawInteractionEvent is one row from the interaction log.
type RawInteractionEvent struct {
	// UserID identifies the member who acted.
	UserID string `json:"user_id"`

	// OrgID identifies the organization the action belongs to.
	OrgID string `json:"org_id"`

	// Action is the kind of interaction recorded.
	Action ActionKind `json:"action"`

	// Timestamp is when the action occurred.
	Timestamp time.Time `json:"timestamp"`
}

// EventPost is one published event inside the analysis window.
type EventPost struct {
	// ID is the event post's stable identifier.
	ID int64 `json:"id"`

	// Title is the event's display name.
	Title string `json:"title"`

	// CreatedAt is when the event was published.
	CreatedAt time.Time `json:"created_at"`
}

// RSVP is one member's RSVP to an event post.
type RSVP struct {
	// UserID identifies the member who responded.
	UserID string `json:"user_id"`

	// PostID identifies the event post responded to.
	PostID int64 `json:"post_id"`

	// CreatedAt is when the RSVP was recorded.
	CreatedAt time.Time `json:"created_at"`
}

// Member is one organization membership row.
type Member struct {
	// UserID identifies the member.
	UserID string `json:"user_id"`

	// IsActive reports whether the membership is currently active.
	IsActive bool `json:"is_active"`
}

// Window kinds accepted by AnalysisRequest.
const (
	Window30d    = "30d"
	Window90d    = "90d"
	WindowAll    = "all"
	WindowCustom = "custom"
)

// Window selects the time range an analysis run reads from.
type Window struct {
	// Kind selects a relative range or a custom one.
	Kind string `json:"kind" validate:"required,oneof=30d 90d all custom"`

	// Start bounds a custom window (inclusive). Ignored for other kinds.
	Start time.Time `json:"start,omitempty"`

	// End bounds a custom window (exclusive). Ignored for other kinds.
	End time.Time `json:"end,omitempty"`
}

// Bounds resolves the window to concrete bounds relative to now.
// A zero start means unbounded history.
func (w Window) Bounds(now time.Time) (start, end time.Time) {
	switch w.Kind {
	case WindowCustom:
		return w.Start, w.End
	case Window30d:
		return now.AddDate(0, 0, -30), now
	case Window90d:
		return now.AddDate(0, 0, -90), now
	default:
		return time.Time{}, now
	}
}

// AnalysisRequest selects the organization and window for a session.
type AnalysisRequest struct {
	// OrgID selects the organization to analyze.
	OrgID string `json:"org_id" validate:"required"`

	// Window selects the analysis time range.
	Window Window `json:"window"`
}

// UserAggregate is one member's activity rolled up across the window.
// Aggregates are rebuilt from raw rows on every run and never persisted.
type UserAggregate struct {
	// UserID is the member's real identifier. It never leaves the engine;
	// all outputs carry AnonymizedID instead.
	UserID string `json:"-"`

	// AnonymizedID is the sequential alias assigned for this run, in the
	// form "User_N". Aliases are stable within a run only.
	AnonymizedID string `json:"anonymized_id"`

	// Interaction counters, one per action kind.
	Views       int `json:"views"`
	Likes       int `json:"likes"`
	Polls       int `json:"polls"`
	Feedbacks   int `json:"feedbacks"`
	RSVPs       int `json:"rsvps"`
	Registers   int `json:"registers"`
	Evaluations int `json:"evaluations"`

	// RSVPRate is the member's RSVP-table responses over the window's
	// event count, as a percentage in [0, 100].
	RSVPRate float64 `json:"rsvp_rate"`

	// EngagementScore is the fixed-weight sum of the counters.
	EngagementScore float64 `json:"engagement_score"`
}

// EventFeatureRecord is one (event, member) pair in the feature table.
type EventFeatureRecord struct {
	// AnonymizedUserID is the member's alias for this run.
	AnonymizedUserID string `json:"anonymized_user_id"`

	// EventID identifies the event post.
	EventID int64 `json:"event_id"`

	// EventName is the event post's title.
	EventName string `json:"event_name"`

	// Interaction counters copied from the member's aggregate.
	Views       int `json:"views"`
	Likes       int `json:"likes"`
	Polls       int `json:"polls"`
	Feedbacks   int `json:"feedbacks"`
	RSVPs       int `json:"rsvps"`
	Registers   int `json:"registers"`
	Evaluations int `json:"evaluations"`

	// RSVPRate is the member's RSVP percentage across the window.
	RSVPRate float64 `json:"rsvp_rate"`

	// EngagementScore is the member's fixed-weight activity score.
	EngagementScore float64 `json:"engagement_score"`

	// HasRSVP reports whether the member RSVPed to this specific event.
	HasRSVP bool `json:"has_rsvp"`

	// Cluster is the member's behavior tier, or -1 before clustering.
	Cluster int `json:"cluster"`

	// PredictedProbability is the classifier's RSVP probability for this
	// record. Zero until the record has been scored.
	PredictedProbability float64 `json:"predicted_probability"`
}

// UserPrediction is one member's averaged RSVP probability.
type UserPrediction struct {
	// AnonymizedUserID is the member's alias for this run.
	AnonymizedUserID string `json:"anonymized_user_id"`

	// PredictedProbability is the mean probability across the member's
	// feature records, in [0, 1].
	PredictedProbability float64 `json:"predicted_probability"`
}

// Thresholds carries the run's engagement likelihood cutoffs.
type Thresholds struct {
	// High is the cutoff for high engagement likelihood.
	High float64 `json:"high"`

	// Medium is the cutoff for medium engagement likelihood.
	Medium float64 `json:"medium"`
}

// ClusteredUser is one member's aggregate positioned in a behavior tier.
type ClusteredUser struct {
	// AnonymizedUserID is the member's alias for this run.
	AnonymizedUserID string `json:"anonymized_user_id"`

	// EngagementScore is the member's fixed-weight activity score.
	EngagementScore float64 `json:"engagement_score"`

	// RSVPRate is the member's RSVP percentage across the window.
	RSVPRate float64 `json:"rsvp_rate"`

	// Cluster is the member's behavior tier.
	Cluster int `json:"cluster"`
}

// ClusterInsight is the narrative attached to one behavior tier.
type ClusterInsight struct {
	// Name is the tier's short label.
	Name string `json:"name"`

	// Description summarizes the tier's typical behavior.
	Description string `json:"description"`

	// Characteristics lists observable traits of members in the tier.
	Characteristics []string `json:"characteristics"`

	// Recommendations lists suggested organizer actions for the tier.
	Recommendations []string `json:"recommendations"`
}

// Data quality grades reported by DataQualityReport.
const (
	QualityGood = "good"
	QualityFair = "fair"
	QualityPoor = "poor"
)

// DataQualityReport grades how much signal the run's data carried.
type DataQualityReport struct {
	// Quality is one of the quality grade constants.
	Quality string `json:"quality"`

	// Message explains the grade.
	Message string `json:"message"`

	// Suggestions lists ways to improve the grade, if any.
	Suggestions []string `json:"suggestions,omitempty"`
}

// Pipeline stages reported through TrainingStatus.
const (
	StageClassifier = "classifier"
	StageClustering = "clustering"
)

// TrainingStatus is a snapshot of training progress inside a run.
type TrainingStatus struct {
	// Stage is the pipeline stage currently running.
	Stage string `json:"stage"`

	// Fraction is the completed share of the stage's schedule, in (0, 1].
	Fraction float64 `json:"fraction"`
}

// ProgressCallback receives training status once per epoch or iteration.
// A nil callback disables reporting. Callbacks run on the training
// goroutine and should return quickly.
type ProgressCallback func(TrainingStatus)

// Summary describes the session's most recent successful run.
type Summary struct {
	// RunID is the run's log correlation identifier.
	RunID string `json:"run_id"`

	// OrgID is the organization analyzed.
	OrgID string `json:"org_id"`

	// Window is the window kind the run used.
	Window string `json:"window"`

	// EventCount is the number of event posts in the window.
	EventCount int `json:"event_count"`

	// ActiveUserCount is the number of distinct active users with
	// recorded activity.
	ActiveUserCount int `json:"active_user_count"`

	// FeatureRecordCount is the size of the (event, member) cross join.
	FeatureRecordCount int `json:"feature_record_count"`

	// TrainingDurationMS is the wall-clock run duration in milliseconds.
	TrainingDurationMS int64 `json:"training_duration_ms"`

	// ClassifierLoss is the classifier's final epoch loss.
	ClassifierLoss float64 `json:"classifier_loss"`

	// ClusterInertia is the clustering objective at the final assignment.
	ClusterInertia float64 `json:"cluster_inertia"`

	// ModelVersion increments on each successful run of this session.
	ModelVersion int `json:"model_version"`

	// TrainedAt is when the run finished.
	TrainedAt time.Time `json:"trained_at"`
}
