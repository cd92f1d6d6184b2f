package anonymity

import (
	"sync"

	dErrors "veil/pkg/domain-errors"
)

type state int

const (
	stateUninitialized state = iota
	stateDisabled
	stateActive
)

// Policy holds the current anonymity tier and the consent gate. It moves
// from Uninitialized to either Disabled (do-not-track signal, or no sink
// configuration) or Active(tier). Disabled is terminal for the process
// lifetime; Active tiers may be toggled at runtime.
type Policy struct {
	mu    sync.RWMutex
	state state
	tier  Tier
}

func NewPolicy() *Policy {
	return &Policy{}
}

// Init attempts the Uninitialized -> Active transition. It returns a coded
// error and leaves the policy Disabled when a do-not-track signal is present
// or no sink configuration exists. Callers handle the error locally; nothing
// propagates to application code.
func (p *Policy) Init(onlyAnonymous bool, signal TrackingSignal, haveSinkConfig bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == stateDisabled {
		return dErrors.New(dErrors.CodeTrackingSuppressed, "tracking permanently disabled")
	}
	if signal != nil && signal.DoNotTrack() {
		p.state = stateDisabled
		return dErrors.New(dErrors.CodeTrackingSuppressed, "do-not-track signal present")
	}
	if !haveSinkConfig {
		p.state = stateDisabled
		return dErrors.New(dErrors.CodeConfigurationAbsent, "no sink configuration")
	}

	p.state = stateActive
	p.tier = TierPseudonymous
	if onlyAnonymous {
		p.tier = TierAnonymous
	}
	return nil
}

// Disable forces the terminal Disabled state, used when sink construction
// fails after a successful gate check.
func (p *Policy) Disable() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = stateDisabled
}

// SetOnlyAnonymous toggles the tier of an Active policy. A user revoking
// consent mid-session downgrades to Anonymous; re-granting upgrades back.
func (p *Policy) SetOnlyAnonymous(only bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != stateActive {
		return
	}
	if only {
		p.tier = TierAnonymous
	} else {
		p.tier = TierPseudonymous
	}
}

// Enabled reports whether the policy reached Active.
func (p *Policy) Enabled() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state == stateActive
}

// Tier returns the tier to redact with.
func (p *Policy) Tier() Tier {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.tier
}

// MayTrack reports whether an event of the given class may be sent.
// Anonymous events are always allowed once active. Pseudonymous and
// room-scoped events carry stable hashed identifiers, so both require the
// pseudonymous tier.
func (p *Policy) MayTrack(class EventClass) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.state != stateActive {
		return false
	}
	if class == ClassAnonymous {
		return true
	}
	return p.tier == TierPseudonymous
}

// MayIdentify reports whether associating a stable hashed user id with the
// sink profile is permitted. Identify is suppressed entirely under the
// Anonymous tier.
func (p *Policy) MayIdentify() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state == stateActive && p.tier == TierPseudonymous
}
