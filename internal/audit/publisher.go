package audit

import (
	"time"

	"github.com/google/uuid"
)

// Publisher accepts decisions from the hot path without blocking it. A full
// inbox drops the record; losing an audit row is preferable to stalling a
// tracking call.
type Publisher struct {
	inbox chan Decision
}

func NewPublisher(buffer int) *Publisher {
	if buffer <= 0 {
		buffer = 256
	}
	return &Publisher{inbox: make(chan Decision, buffer)}
}

// Emit enqueues a decision for the background worker.
func (p *Publisher) Emit(d Decision) {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.Timestamp.IsZero() {
		d.Timestamp = time.Now()
	}
	select {
	case p.inbox <- d:
	default:
	}
}

// Inbox exposes the decision stream for the worker.
func (p *Publisher) Inbox() <-chan Decision {
	return p.inbox
}
