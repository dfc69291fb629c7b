package models

import (
	"fmt"
	"math"
)

// Contest is an upcoming contest as listed by the backend. The optional
// local fields are present only when a timezone was requested.
type Contest struct {
	ID                      int64      `json:"id"`
	Name                    string     `json:"name"`
	Phase                   string     `json:"phase,omitempty"`
	StartTimeUTC            *Timestamp `json:"start_time_utc"`
	StartTimeLocalFormatted string     `json:"start_time_local_formatted,omitempty"`
	LocalTimezone           string     `json:"local_timezone,omitempty"`
	DurationSeconds         *int64     `json:"duration_seconds,omitempty"`
	RelativeTimeSeconds     *int64     `json:"relative_time_seconds,omitempty"`
}

// StartsLabel prefers the backend-formatted local start, then the UTC
// instant, then "TBD".
func (c Contest) StartsLabel() string {
	if c.StartTimeLocalFormatted != "" {
		return c.StartTimeLocalFormatted
	}
	if c.StartTimeUTC != nil {
		return c.StartTimeUTC.String()
	}
	return "TBD"
}

// DurationLabel renders the duration rounded to whole minutes.
func (c Contest) DurationLabel() string {
	if c.DurationSeconds == nil || *c.DurationSeconds == 0 {
		return "TBD"
	}
	return fmt.Sprintf("%d min", int64(math.Round(float64(*c.DurationSeconds)/60)))
}

// Subscription links the current user to a contest.
type Subscription struct {
	ContestID    int64      `json:"contest_id"`
	ContestName  string     `json:"contest_name,omitempty"`
	StartTimeUTC *Timestamp `json:"start_time_utc,omitempty"`
}

// SubscriptionRequest is the full-replacement body of a subscription save.
type SubscriptionRequest struct {
	ContestIDs []int64 `json:"contest_ids"`
}

// PreviewEntry is the server-computed reminder schedule for one contest.
type PreviewEntry struct {
	ContestID               int64       `json:"contest_id"`
	ContestName             string      `json:"contest_name"`
	StartTimeUTC            *Timestamp  `json:"start_time_utc"`
	RemindersUTC            []Timestamp `json:"reminders_utc,omitempty"`
	RemindersLocalFormatted []string    `json:"reminders_local_formatted"`
}

// StartsLabel renders the UTC start or "TBD".
func (p PreviewEntry) StartsLabel() string {
	if p.StartTimeUTC == nil {
		return "TBD"
	}
	return p.StartTimeUTC.String()
}

// DispatchResult reports a dispatch run. Errors lists per-notification
// failures and may be non-empty even when SentCount is positive.
type DispatchResult struct {
	SentCount int      `json:"sent_count"`
	Errors    []string `json:"errors"`
}

// Health is the body of the liveness probe.
type Health struct {
	Status string `json:"status"`
}
