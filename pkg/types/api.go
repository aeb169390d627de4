// Package types holds the payloads exchanged between the daemon API and its
// clients.
package types

import (
	"time"
)

// ApplyRequest asks the daemon to apply a profile now. An empty Condition
// means sense the ambient light first.
type ApplyRequest struct {
	Condition string `json:"condition,omitempty"`
}

// ApplyResult describes one apply pass, scheduled or requested.
type ApplyResult struct {
	Time      time.Time `json:"time"`
	Condition string    `json:"condition"`
	// Source is how the condition was obtained: "sensed" or "forced".
	Source  string `json:"source"`
	Profile string `json:"profile"`
	// NeedsManualApply means the system settings were opened for the user to
	// finish the installation by hand.
	NeedsManualApply bool   `json:"needsManualApply,omitempty"`
	Error            string `json:"error,omitempty"`
}

// Status is the daemon's current state.
type Status struct {
	Schedule string       `json:"schedule"`
	NextRun  *time.Time   `json:"nextRun,omitempty"`
	LastRun  *ApplyResult `json:"lastRun,omitempty"`
}

// ScheduleRequest replaces the daemon's cron schedule. An empty expression
// disables scheduled applies.
type ScheduleRequest struct {
	Cron string `json:"cron"`
}
