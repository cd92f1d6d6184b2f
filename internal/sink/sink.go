// Package sink defines the narrow boundary between the anonymization
// pipeline and the telemetry backend. Transport, batching, and retries live
// behind this interface and are out of scope here.
package sink

import "context"

// Properties is the payload attached to an event.
type Properties map[string]any

// SanitizeHook is invoked synchronously by a Sink immediately before an
// event leaves the process. By contract it must not block or suspend; it
// only reads already-computed state.
type SanitizeHook func(Properties) Properties

// Options configure a Sink at construction time.
type Options struct {
	// MaskAllText asks the backend to mask free-text content it collects on
	// its own (autocapture and the like).
	MaskAllText bool
	// Sanitize is run on every event's properties before transmission.
	Sanitize SanitizeHook
}

// Config identifies the backend. An absent API key means no sink is
// configured and the pipeline stays uninitialized.
type Config struct {
	APIKey   string
	Endpoint string
}

// Present reports whether a sink is configured at all.
func (c Config) Present() bool {
	return c.APIKey != ""
}

// Sink receives sanitized events. Capture must apply the configured
// SanitizeHook before the event is transmitted or stored.
type Sink interface {
	Capture(ctx context.Context, event string, props Properties) error
	Identify(ctx context.Context, distinctID string) error
	Close() error
}

// Factory builds the concrete Sink once the pipeline has its sanitize hook
// ready. Construction failures keep the pipeline uninitialized; they never
// crash the host application.
type Factory func(opts Options) (Sink, error)

func applySanitize(opts Options, props Properties) Properties {
	if props == nil {
		props = Properties{}
	}
	if opts.Sanitize != nil {
		props = opts.Sanitize(props)
	}
	return props
}
