//go:build integration

package consent_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"veil/internal/consent"
	"veil/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *consent.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = consent.NewRedisStore(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) TestRoundTrip() {
	ctx := context.Background()

	_, ok, err := s.store.Get(ctx, "@alice:example.org")
	s.NoError(err)
	s.False(ok)

	pref := consent.Preference{
		UserID:        "@alice:example.org",
		OnlyAnonymous: true,
	}
	s.Require().NoError(s.store.Save(ctx, pref))

	got, ok, err := s.store.Get(ctx, "@alice:example.org")
	s.NoError(err)
	s.True(ok)
	s.True(got.OnlyAnonymous)
	s.False(got.UpdatedAt.IsZero())
}

func (s *RedisStoreSuite) TestOverwriteAndDelete() {
	ctx := context.Background()

	s.Require().NoError(s.store.Save(ctx, consent.Preference{UserID: "u", OnlyAnonymous: true}))
	s.Require().NoError(s.store.Save(ctx, consent.Preference{UserID: "u", OptedOut: true}))

	got, ok, err := s.store.Get(ctx, "u")
	s.NoError(err)
	s.True(ok)
	s.False(got.OnlyAnonymous)
	s.True(got.OptedOut)

	s.Require().NoError(s.store.Delete(ctx, "u"))
	_, ok, err = s.store.Get(ctx, "u")
	s.NoError(err)
	s.False(ok)
}
