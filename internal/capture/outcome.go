package capture

// Outcome classifies what happened to a tracking call. External callers
// observe no difference between the non-sent outcomes; the type exists for
// the audit trail, metrics, and tests.
type Outcome int

const (
	// OutcomeSent means the event reached the sink after sanitization.
	OutcomeSent Outcome = iota
	// OutcomeDroppedByPolicy means the event class is not permitted under
	// the current tier.
	OutcomeDroppedByPolicy
	// OutcomeDisabled means the pipeline never initialized (do-not-track
	// signal or absent configuration).
	OutcomeDisabled
	// OutcomeFailed means redaction or the sink itself failed; nothing was
	// transmitted.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSent:
		return "sent"
	case OutcomeDroppedByPolicy:
		return "dropped_by_policy"
	case OutcomeDisabled:
		return "disabled"
	default:
		return "failed"
	}
}
