package audit

import (
	"context"
	"log/slog"
)

// Worker consumes decisions from a channel and persists them. A failing
// store is logged and skipped; the audit trail must never take the relay
// down with it.
type Worker struct {
	store  Store
	inbox  <-chan Decision
	logger *slog.Logger
}

func NewWorker(store Store, inbox <-chan Decision, logger *slog.Logger) *Worker {
	return &Worker{store: store, inbox: inbox, logger: logger}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d := <-w.inbox:
			if err := w.store.Append(ctx, d); err != nil {
				w.logger.WarnContext(ctx, "audit append failed",
					"error", err,
					"event", d.Event,
				)
			}
		}
	}
}
