package sink

import (
	"context"
	"sync"
)

// CapturedEvent is one event as it would have left the process.
type CapturedEvent struct {
	Name       string
	Properties Properties
}

// Recorder is an in-memory Sink for tests and local development. It applies
// the sanitize hook exactly as a real backend client would, so recorded
// events show what would actually have been transmitted.
type Recorder struct {
	mu         sync.Mutex
	opts       Options
	events     []CapturedEvent
	identities []string
}

func NewRecorder(opts Options) *Recorder {
	return &Recorder{opts: opts}
}

func (r *Recorder) Capture(_ context.Context, event string, props Properties) error {
	props = applySanitize(r.opts, props)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, CapturedEvent{Name: event, Properties: props})
	return nil
}

func (r *Recorder) Identify(_ context.Context, distinctID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.identities = append(r.identities, distinctID)
	return nil
}

func (r *Recorder) Close() error { return nil }

// Events returns a copy of everything captured so far.
func (r *Recorder) Events() []CapturedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]CapturedEvent{}, r.events...)
}

// Identities returns every distinct id handed to Identify.
func (r *Recorder) Identities() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.identities...)
}
