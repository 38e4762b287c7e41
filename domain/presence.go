package domain

import "time"

type Status string

const (
	StatusOnline  Status = "online"
	StatusAway    Status = "away"
	StatusOffline Status = "offline"
)

const (
	// OnlineWindow is how long after the last request a user still counts as online.
	OnlineWindow = 5 * time.Minute
	// AwayWindow is the outer bound for "away"; beyond it the user is offline.
	AwayWindow = 15 * time.Minute
)

// Presence is the per-user activity record. It lives under its own storage
// key so that the per-request touch rewrites these two fields only.
type Presence struct {
	LastActivity time.Time `json:"last_activity"`
	Online       bool      `json:"online"`
}

// Classify derives the presence status from a last-activity timestamp.
// A user who never made a request is offline.
func Classify(lastActivity, now time.Time) Status {
	if lastActivity.IsZero() {
		return StatusOffline
	}
	since := now.Sub(lastActivity)
	switch {
	case since < OnlineWindow:
		return StatusOnline
	case since < AwayWindow:
		return StatusAway
	default:
		return StatusOffline
	}
}
