package redact

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"veil/internal/anonymity"
	"veil/internal/hashing"
	dErrors "veil/pkg/domain-errors"
)

type RedactorSuite struct {
	suite.Suite
	ctx      context.Context
	redactor *Redactor
	digester hashing.SHA256
}

func TestRedactorSuite(t *testing.T) {
	suite.Run(t, new(RedactorSuite))
}

func (s *RedactorSuite) SetupTest() {
	s.ctx = context.Background()
	s.digester = hashing.SHA256{}
	s.redactor = New(s.digester)
}

func (s *RedactorSuite) digest(input string) string {
	out, err := s.digester.Digest(s.ctx, input)
	s.Require().NoError(err)
	return out
}

func (s *RedactorSuite) TestTrailingSegments() {
	loc := Location{
		Origin:   "https://app.example.com",
		Fragment: "#/room/!abc123:example.org",
	}

	s.Run("anonymous tier replaces segments with the marker", func() {
		out, err := s.redactor.Redact(s.ctx, loc, anonymity.TierAnonymous)
		s.NoError(err)
		s.Equal("https://app.example.com#/room/"+Marker, out)
		s.NotContains(out, "!abc123")
	})

	s.Run("pseudonymous tier replaces segments with their digest", func() {
		out, err := s.redactor.Redact(s.ctx, loc, anonymity.TierPseudonymous)
		s.NoError(err)
		s.Equal("https://app.example.com#/room/"+s.digest("!abc123:example.org"), out)
		s.NotContains(out, "!abc123")
	})

	s.Run("multiple segments are each redacted", func() {
		multi := Location{
			Origin:   "https://app.example.com",
			Fragment: "#/room/!abc123/event-55",
		}
		out, err := s.redactor.Redact(s.ctx, multi, anonymity.TierPseudonymous)
		s.NoError(err)
		s.Equal("https://app.example.com#/room/"+s.digest("!abc123")+"/"+s.digest("event-55"), out)
	})
}

func (s *RedactorSuite) TestScreenNames() {
	s.Run("unknown screen is fully opaque regardless of tier", func() {
		loc := Location{
			Origin:   "https://app.example.com",
			Fragment: "#/secret_feature/param",
		}
		for _, tier := range []anonymity.Tier{anonymity.TierAnonymous, anonymity.TierPseudonymous} {
			out, err := s.redactor.Redact(s.ctx, loc, tier)
			s.NoError(err)
			s.NotContains(out, "secret_feature")
			s.Contains(out, ScreenMarker)
		}
	})

	s.Run("known screen is preserved verbatim", func() {
		loc := Location{
			Origin:   "https://app.example.com",
			Fragment: "#/settings",
		}
		out, err := s.redactor.Redact(s.ctx, loc, anonymity.TierAnonymous)
		s.NoError(err)
		s.Equal("https://app.example.com#/settings", out)
	})
}

func (s *RedactorSuite) TestLocalFileOrigin() {
	loc := Location{
		Origin:   "file://",
		Fragment: "#/room/!abc123",
		Path:     "/home/alice/element/index.html",
	}
	for _, tier := range []anonymity.Tier{anonymity.TierAnonymous, anonymity.TierPseudonymous} {
		out, err := s.redactor.Redact(s.ctx, loc, tier)
		s.NoError(err)
		s.NotContains(out, "alice")
		s.Contains(out, FileMarker)
	}
}

func (s *RedactorSuite) TestEmptyFragment() {
	loc := Location{Origin: "https://app.example.com", Path: "/"}
	out, err := s.redactor.Redact(s.ctx, loc, anonymity.TierAnonymous)
	s.NoError(err)
	s.Equal("https://app.example.com/", out)
}

func (s *RedactorSuite) TestIdempotence() {
	// Resubmitting already-redacted output must not crash and yields the
	// marker or the digest of the marker/digest string; there is no
	// double-unwrapping.
	loc := Location{
		Origin:   "https://app.example.com",
		Fragment: "#/room/" + Marker,
	}

	out, err := s.redactor.Redact(s.ctx, loc, anonymity.TierAnonymous)
	s.NoError(err)
	s.Equal("https://app.example.com#/room/"+Marker, out)

	out, err = s.redactor.Redact(s.ctx, loc, anonymity.TierPseudonymous)
	s.NoError(err)
	s.Equal("https://app.example.com#/room/"+s.digest(Marker), out)
}

type failingDigester struct{}

func (failingDigester) Digest(context.Context, string) (string, error) {
	return "", errors.New("digest backend unavailable")
}

func (s *RedactorSuite) TestDigestFailureAborts() {
	redactor := New(failingDigester{})
	loc := Location{
		Origin:   "https://app.example.com",
		Fragment: "#/room/!abc123",
	}

	out, err := redactor.Redact(s.ctx, loc, anonymity.TierPseudonymous)
	s.Error(err)
	s.Equal(dErrors.CodeDigestFailure, dErrors.CodeOf(err))
	s.Empty(out)
}
