// Package capture is the entry point of the anonymization pipeline. It
// gates events on the anonymity policy, refreshes the redacted navigation
// context, and only then hands the event to the sink, whose synchronous
// sanitize hook reads the already-computed context.
package capture

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"veil/internal/anonymity"
	"veil/internal/audit"
	"veil/internal/hashing"
	"veil/internal/platform/metrics"
	"veil/internal/redact"
	"veil/internal/sink"
)

// Sink property keys overwritten or stripped by the sanitize hook.
const (
	propCurrentURL       = "$current_url"
	propReferrer         = "$referrer"
	propReferringDomain  = "$referring_domain"
	propInitialReferrer  = "$initial_referrer"
	propInitialRefDomain = "$initial_referring_domain"
	propRoomID           = "roomId"
)

// Event is a typed telemetry event tagged with an anonymity class.
type Event struct {
	Name       string
	Class      anonymity.EventClass
	Properties sink.Properties
	// RoomID is the raw room identifier of a room-scoped event. It is
	// hashed before it is attached; the raw value never reaches the sink.
	RoomID string
	// Location is the navigation context observed when the event fired.
	// Nil falls back to the pipeline's LocationSource.
	Location *redact.Location
}

// LocationSource provides the current raw navigation context. The lookup
// may suspend; it runs before the sink is contacted.
type LocationSource interface {
	Location(ctx context.Context) (redact.Location, error)
}

// LocationFunc adapts a function to the LocationSource interface.
type LocationFunc func(ctx context.Context) (redact.Location, error)

func (f LocationFunc) Location(ctx context.Context) (redact.Location, error) { return f(ctx) }

// Config carries everything the pipeline needs at construction.
type Config struct {
	Sink sink.Config
	// OnlyAnonymous starts the pipeline at the Anonymous tier.
	OnlyAnonymous bool
	Signal        anonymity.TrackingSignal
}

// Pipeline is the one per-process instance. Construct it at application
// start and pass it by reference to call sites.
type Pipeline struct {
	policy    *anonymity.Policy
	digester  hashing.Digester
	redactor  *redact.Redactor
	cache     *ContextCache
	locations LocationSource
	sink      sink.Sink
	logger    *slog.Logger
	metrics   *metrics.Metrics
	audit     *audit.Publisher
	tracer    trace.Tracer
}

// Option configures optional pipeline collaborators.
type Option func(*Pipeline)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

func WithAudit(pub *audit.Publisher) Option {
	return func(p *Pipeline) { p.audit = pub }
}

func WithLocationSource(src LocationSource) Option {
	return func(p *Pipeline) { p.locations = src }
}

func WithDigester(d hashing.Digester) Option {
	return func(p *Pipeline) {
		p.digester = d
		p.redactor = redact.New(d)
	}
}

// New builds the pipeline. An absent sink configuration or a present
// do-not-track signal leaves it disabled: every subsequent call is a no-op
// and IsInitialised reports false. Nothing here ever panics or returns an
// error to the host application.
func New(cfg Config, factory sink.Factory, opts ...Option) *Pipeline {
	p := &Pipeline{
		policy:   anonymity.NewPolicy(),
		digester: hashing.SHA256{},
		cache:    NewContextCache(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		tracer:   otel.Tracer("veil/capture"),
	}
	p.redactor = redact.New(p.digester)
	for _, opt := range opts {
		opt(p)
	}

	if err := p.policy.Init(cfg.OnlyAnonymous, cfg.Signal, cfg.Sink.Present()); err != nil {
		p.logger.Info("telemetry disabled", "reason", err)
		return p
	}

	s, err := factory(sink.Options{
		MaskAllText: true,
		Sanitize:    p.sanitizeProperties,
	})
	if err != nil {
		p.policy.Disable()
		p.logger.Warn("sink construction failed, telemetry disabled", "error", err)
		return p
	}
	p.sink = s
	return p
}

// IsInitialised reports whether the pipeline reached the active state. It is
// the only externally observable signal of initialization failures.
func (p *Pipeline) IsInitialised() bool {
	return p.policy.Enabled() && p.sink != nil
}

// SetOnlyTrackAnonymousEvents toggles the tier at runtime, e.g. when a user
// revokes pseudonymous consent mid-session.
func (p *Pipeline) SetOnlyTrackAnonymousEvents(only bool) {
	p.policy.SetOnlyAnonymous(only)
}

// Track runs the policy gate, refreshes the redacted context, and only then
// hands the event to the sink. The refresh completes before Capture begins
// so the synchronous sanitize hook never reads a stale or absent location.
// The returned outcome is for tests and the audit trail; callers elsewhere
// in the application ignore it.
func (p *Pipeline) Track(ctx context.Context, ev Event) Outcome {
	ctx, span := p.tracer.Start(ctx, "capture.track",
		trace.WithAttributes(attribute.String("telemetry.class", ev.Class.String())))
	defer span.End()

	outcome := p.track(ctx, ev)

	span.SetAttributes(attribute.String("telemetry.outcome", outcome.String()))
	if p.metrics != nil {
		p.metrics.ObserveEvent(ev.Class.String(), outcome.String())
	}
	if p.audit != nil {
		p.audit.Emit(audit.Decision{
			Event:   ev.Name,
			Class:   ev.Class.String(),
			Tier:    p.policy.Tier().String(),
			Outcome: outcome.String(),
		})
	}
	return outcome
}

func (p *Pipeline) track(ctx context.Context, ev Event) Outcome {
	if !p.IsInitialised() {
		return OutcomeDisabled
	}
	if !p.policy.MayTrack(ev.Class) {
		return OutcomeDroppedByPolicy
	}

	props := maps.Clone(ev.Properties)
	if props == nil {
		props = sink.Properties{}
	}

	if ev.Class == anonymity.ClassRoomScoped && ev.RoomID != "" {
		hashed, err := p.digester.Digest(ctx, ev.RoomID)
		if err != nil {
			p.logger.WarnContext(ctx, "room id digest failed, event dropped",
				"event", ev.Name, "error", err)
			return OutcomeFailed
		}
		props[propRoomID] = hashed
	}

	if err := p.refreshContext(ctx, ev.Location); err != nil {
		p.logger.WarnContext(ctx, "context refresh failed, event dropped",
			"event", ev.Name, "error", err)
		return OutcomeFailed
	}

	if err := p.sink.Capture(ctx, ev.Name, props); err != nil {
		p.logger.WarnContext(ctx, "sink capture failed",
			"event", ev.Name, "error", err)
		return OutcomeFailed
	}
	return OutcomeSent
}

// TrackAnonymousEvent records an event carrying only non-identifying data.
func (p *Pipeline) TrackAnonymousEvent(ctx context.Context, name string, props sink.Properties) {
	p.Track(ctx, Event{Name: name, Class: anonymity.ClassAnonymous, Properties: props})
}

// TrackPseudonymousEvent records an event that may carry stable hashed
// identifiers. Dropped silently unless the pseudonymous tier is active.
func (p *Pipeline) TrackPseudonymousEvent(ctx context.Context, name string, props sink.Properties) {
	p.Track(ctx, Event{Name: name, Class: anonymity.ClassPseudonymous, Properties: props})
}

// TrackRoomScopedEvent records an event tied to a room. The room id is
// hashed before it is attached.
func (p *Pipeline) TrackRoomScopedEvent(ctx context.Context, name, roomID string, props sink.Properties) {
	p.Track(ctx, Event{Name: name, Class: anonymity.ClassRoomScoped, RoomID: roomID, Properties: props})
}

// IdentifyUser associates the hashed user id with the sink profile.
// Suppressed entirely under the Anonymous tier; the raw id never leaves the
// process.
func (p *Pipeline) IdentifyUser(ctx context.Context, userID string) {
	if !p.IsInitialised() || !p.policy.MayIdentify() {
		return
	}
	hashed, err := p.digester.Digest(ctx, userID)
	if err != nil {
		p.logger.WarnContext(ctx, "user id digest failed, identify aborted", "error", err)
		return
	}
	if err := p.sink.Identify(ctx, hashed); err != nil {
		p.logger.WarnContext(ctx, "sink identify failed", "error", err)
		return
	}
	if p.metrics != nil {
		p.metrics.ObserveIdentify()
	}
}

// refreshContext recomputes the redacted location and stores it in the
// cache. Runs to completion before the sink is contacted; under overlapping
// Track calls the cache holds whichever recompute finished last.
func (p *Pipeline) refreshContext(ctx context.Context, loc *redact.Location) error {
	var raw redact.Location
	switch {
	case loc != nil:
		raw = *loc
	case p.locations != nil:
		var err error
		raw, err = p.locations.Location(ctx)
		if err != nil {
			return err
		}
	default:
		// No navigation context for this call; the sanitize hook strips
		// location fields when the cache is empty.
		return nil
	}

	redacted, err := p.redactor.Redact(ctx, raw, p.policy.Tier())
	if err != nil {
		return err
	}
	p.cache.Set(redacted)
	return nil
}

// sanitizeProperties is the synchronous hook the sink invokes at send time.
// It must not block: it only reads the already-refreshed cache and strips
// referrer fields the backend may have attached on its own.
func (p *Pipeline) sanitizeProperties(props sink.Properties) sink.Properties {
	start := time.Now()
	if props == nil {
		props = sink.Properties{}
	}
	delete(props, propReferrer)
	delete(props, propReferringDomain)
	delete(props, propInitialReferrer)
	delete(props, propInitialRefDomain)
	if location, ok := p.cache.Get(); ok {
		props[propCurrentURL] = location
	} else {
		delete(props, propCurrentURL)
	}
	if p.metrics != nil {
		p.metrics.ObserveSanitize(time.Since(start))
	}
	return props
}
