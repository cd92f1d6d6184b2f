package audit

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type AuditSuite struct {
	suite.Suite
	ctx context.Context
}

func TestAuditSuite(t *testing.T) {
	suite.Run(t, new(AuditSuite))
}

func (s *AuditSuite) SetupTest() {
	s.ctx = context.Background()
}

func (s *AuditSuite) TestPublisherFillsIdentityAndTimestamp() {
	pub := NewPublisher(4)
	pub.Emit(Decision{Event: "page_view", Outcome: "sent"})

	d := <-pub.Inbox()
	s.NotEmpty(d.ID)
	s.False(d.Timestamp.IsZero())
	s.Equal("page_view", d.Event)
}

func (s *AuditSuite) TestPublisherNeverBlocks() {
	pub := NewPublisher(1)
	// Second emit overflows the inbox and must drop, not stall.
	done := make(chan struct{})
	go func() {
		pub.Emit(Decision{Event: "first"})
		pub.Emit(Decision{Event: "second"})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		s.Fail("Emit blocked on a full inbox")
	}
}

func (s *AuditSuite) TestWorkerDrainsIntoStore() {
	store := NewInMemoryStore()
	pub := NewPublisher(8)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	worker := NewWorker(store, pub.Inbox(), logger)

	ctx, cancel := context.WithCancel(s.ctx)
	finished := make(chan error, 1)
	go func() { finished <- worker.Run(ctx) }()

	pub.Emit(Decision{Event: "one", Outcome: "sent"})
	pub.Emit(Decision{Event: "two", Outcome: "dropped_by_policy"})

	s.Eventually(func() bool {
		decisions, err := store.List(s.ctx)
		s.Require().NoError(err)
		return len(decisions) == 2
	}, time.Second, 10*time.Millisecond)

	cancel()
	s.ErrorIs(<-finished, context.Canceled)

	decisions, err := store.List(s.ctx)
	s.Require().NoError(err)
	s.Equal("one", decisions[0].Event)
	s.Equal("two", decisions[1].Event)
}
