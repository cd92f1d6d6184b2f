package consent

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type InMemoryStoreSuite struct {
	suite.Suite
	ctx   context.Context
	store *InMemoryStore
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewInMemoryStore()
}

func (s *InMemoryStoreSuite) TestGetMissing() {
	_, ok, err := s.store.Get(s.ctx, "nobody")
	s.NoError(err)
	s.False(ok)
}

func (s *InMemoryStoreSuite) TestSaveAndGet() {
	pref := Preference{
		UserID:        "@alice:example.org",
		OnlyAnonymous: true,
		UpdatedAt:     time.Now(),
	}
	s.Require().NoError(s.store.Save(s.ctx, pref))

	got, ok, err := s.store.Get(s.ctx, "@alice:example.org")
	s.NoError(err)
	s.True(ok)
	s.True(got.OnlyAnonymous)
	s.False(got.OptedOut)
}

func (s *InMemoryStoreSuite) TestSaveOverwrites() {
	s.Require().NoError(s.store.Save(s.ctx, Preference{UserID: "u", OnlyAnonymous: true}))
	s.Require().NoError(s.store.Save(s.ctx, Preference{UserID: "u", OnlyAnonymous: false, OptedOut: true}))

	got, ok, err := s.store.Get(s.ctx, "u")
	s.NoError(err)
	s.True(ok)
	s.False(got.OnlyAnonymous)
	s.True(got.OptedOut)
}

func (s *InMemoryStoreSuite) TestDelete() {
	s.Require().NoError(s.store.Save(s.ctx, Preference{UserID: "u"}))
	s.Require().NoError(s.store.Delete(s.ctx, "u"))

	_, ok, err := s.store.Get(s.ctx, "u")
	s.NoError(err)
	s.False(ok)
}
