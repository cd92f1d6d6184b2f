package audit

import (
	"context"
	"time"
)

// Decision is one pipeline verdict. Silent policy drops are a deliberate
// privacy-over-observability tradeoff toward callers; the audit trail keeps
// them visible to operators without exposing event payloads.
type Decision struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Event     string    `json:"event"`
	Class     string    `json:"class"`
	Tier      string    `json:"tier"`
	Outcome   string    `json:"outcome"`
}

// Store persists decisions. Keep it transport-agnostic so memory and broker
// backed implementations can fan out.
type Store interface {
	Append(ctx context.Context, d Decision) error
}
