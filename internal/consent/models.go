// Package consent persists the telemetry preference a user expressed, so a
// consent decision survives restarts. The anonymity policy is the runtime
// authority; this package is only its durable backing.
package consent

import "time"

// Preference captures a user's telemetry decision.
type Preference struct {
	UserID string `json:"user_id"`
	// OnlyAnonymous caps the tier at Anonymous even when pseudonymous
	// tracking is otherwise available.
	OnlyAnonymous bool `json:"only_anonymous"`
	// OptedOut disables tracking for this user entirely.
	OptedOut  bool      `json:"opted_out"`
	UpdatedAt time.Time `json:"updated_at"`
}
