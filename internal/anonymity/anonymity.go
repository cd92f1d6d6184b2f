// Package anonymity holds the consent policy governing what telemetry may
// leave the process and at which strictness level.
package anonymity

import "os"

// Tier is the strictness level applied to outgoing data. Anonymous permits
// only non-identifying data; Pseudonymous additionally permits stable hashed
// identifiers, and only with explicit consent.
type Tier int

const (
	TierAnonymous Tier = iota
	TierPseudonymous
)

func (t Tier) String() string {
	if t == TierPseudonymous {
		return "pseudonymous"
	}
	return "anonymous"
}

// EventClass is the anonymity class an event is declared with. An event
// declared ClassAnonymous must never carry a field that is not itself
// anonymous.
type EventClass int

const (
	ClassAnonymous EventClass = iota
	ClassPseudonymous
	ClassRoomScoped
)

func (c EventClass) String() string {
	switch c {
	case ClassPseudonymous:
		return "pseudonymous"
	case ClassRoomScoped:
		return "room_scoped"
	default:
		return "anonymous"
	}
}

// TrackingSignal reports whether an environment-level opt-out is present.
type TrackingSignal interface {
	DoNotTrack() bool
}

// EnvSignal reads the DO_NOT_TRACK environment convention.
type EnvSignal struct{}

func (EnvSignal) DoNotTrack() bool {
	v := os.Getenv("DO_NOT_TRACK")
	return v == "1" || v == "true"
}

// SignalFunc adapts a function to the TrackingSignal interface.
type SignalFunc func() bool

func (f SignalFunc) DoNotTrack() bool { return f() }
