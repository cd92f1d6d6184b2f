// Package redact sanitizes navigation context before it may be attached to
// an outgoing telemetry event.
package redact

import (
	"context"
	"strings"

	"veil/internal/anonymity"
	"veil/internal/hashing"
	dErrors "veil/pkg/domain-errors"
)

const (
	// Marker replaces a trailing path segment under the Anonymous tier.
	Marker = "<redacted>"
	// ScreenMarker replaces a screen name outside the known set. Screen
	// names are a low-entropy vocabulary, so hashing them would not protect
	// anything; an opaque placeholder still records that some screen was
	// visited.
	ScreenMarker = "<redacted_screen>"
	// FileMarker replaces the filesystem path when the origin is a local
	// file context. Local paths contain usernames and directory structure.
	FileMarker = "<redacted_file_scheme_url>"
)

// knownScreens is the allow-list of screen names considered non-identifying
// and safe to transmit verbatim.
var knownScreens = map[string]struct{}{
	"register":          {},
	"login":             {},
	"forgot_password":   {},
	"soft_logout":       {},
	"welcome":           {},
	"home":              {},
	"start":             {},
	"directory":         {},
	"settings":          {},
	"complete_security": {},
	"post_registration": {},
	"room":              {},
	"user":              {},
	"group":             {},
}

// KnownScreen reports whether name may appear verbatim in redacted output.
func KnownScreen(name string) bool {
	_, ok := knownScreens[name]
	return ok
}

// Location is a raw navigation context as observed by the client.
type Location struct {
	// Origin is the scheme and host, e.g. "https://app.example.com" or
	// "file://".
	Origin string
	// Fragment is the in-app route, e.g. "#/room/!abc123:server".
	Fragment string
	// Path is the filesystem or URL path component preceding the fragment.
	Path string
}

// Redactor rewrites a raw Location into a string that is safe to transmit
// under the given tier.
type Redactor struct {
	digester hashing.Digester
}

func New(digester hashing.Digester) *Redactor {
	return &Redactor{digester: digester}
}

// Redact sanitizes loc for the given tier. Trailing route segments are
// replaced with Marker under TierAnonymous and with their digest under
// TierPseudonymous; the output never contains a raw trailing segment. A
// digest failure aborts with a coded error so the caller drops the event
// instead of sending the raw value.
func (r *Redactor) Redact(ctx context.Context, loc Location, tier anonymity.Tier) (string, error) {
	path := loc.Path
	if strings.HasPrefix(loc.Origin, "file:") {
		path = FileMarker
	}

	fragment := strings.TrimPrefix(loc.Fragment, "#")
	fragment = strings.TrimPrefix(fragment, "/")
	if fragment == "" {
		return loc.Origin + path, nil
	}

	segments := strings.Split(fragment, "/")
	screen := segments[0]
	if !KnownScreen(screen) {
		screen = ScreenMarker
	}

	trailing := make([]string, 0, len(segments)-1)
	for _, segment := range segments[1:] {
		if tier == anonymity.TierPseudonymous {
			digest, err := r.digester.Digest(ctx, segment)
			if err != nil {
				return "", dErrors.New(dErrors.CodeDigestFailure, "could not hash path segment")
			}
			trailing = append(trailing, digest)
			continue
		}
		trailing = append(trailing, Marker)
	}

	redacted := loc.Origin + path + "#/" + screen
	if len(trailing) > 0 {
		redacted += "/" + strings.Join(trailing, "/")
	}
	return redacted, nil
}
