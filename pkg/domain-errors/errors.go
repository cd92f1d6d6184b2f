// Package domainerrors defines the coded errors shared across the telemetry
// pipeline. Codes travel with the error so transport layers can translate
// them without string matching.
package domainerrors

import (
	"errors"
	"net/http"
)

type Code string

const (
	// CodeConfigurationAbsent means no sink configuration was found; the
	// pipeline stays disabled and callers observe it only via IsInitialised.
	CodeConfigurationAbsent Code = "configuration_absent"
	// CodeTrackingSuppressed means a do-not-track signal was present at
	// initialization.
	CodeTrackingSuppressed Code = "tracking_suppressed"
	// CodePolicyDenied means the event class is not permitted under the
	// current anonymity tier.
	CodePolicyDenied Code = "policy_denied"
	// CodeDigestFailure means an identifier could not be hashed. The
	// enclosing operation must abort rather than send the raw value.
	CodeDigestFailure Code = "digest_failure"

	CodeBadRequest   Code = "bad_request"
	CodeUnauthorized Code = "unauthorized"
	CodeInternal     Code = "internal"
)

// Error carries a machine-readable code alongside a human message.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// CodeOf extracts the code from err, or CodeInternal for uncoded errors.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a domain error code to an HTTP status for transport
// handlers. Pipeline-internal codes never reach the wire; they map to 500 as
// a safety net.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
