package state

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"recruitbot/internal/admission/models"
)

type InMemoryStateStoreSuite struct {
	suite.Suite
	store *InMemoryStateStore
	now   time.Time
}

func TestInMemoryStateStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStateStoreSuite))
}

func (s *InMemoryStateStoreSuite) SetupTest() {
	s.store = New()
	s.now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
}

func (s *InMemoryStateStoreSuite) TestUpdate() {
	ctx := context.Background()

	s.Run("first contact starts from an empty state", func() {
		st, err := s.store.Update(ctx, 1, func(st *models.State) error {
			s.Equal(int64(1), st.UserID)
			s.Zero(st.MessageCount)
			st.MessageCount = 3
			return nil
		})
		s.Require().NoError(err)
		s.Equal(3, st.MessageCount)

		got, err := s.store.Get(ctx, 1)
		s.Require().NoError(err)
		s.Equal(3, got.MessageCount)
	})

	s.Run("failed update leaves state untouched", func() {
		_, err := s.store.Update(ctx, 1, func(st *models.State) error {
			st.MessageCount = 99
			return errors.New("boom")
		})
		s.Error(err)

		got, _ := s.store.Get(ctx, 1)
		s.Equal(3, got.MessageCount)
	})

	s.Run("returned state is a copy", func() {
		got, _ := s.store.Get(ctx, 1)
		got.MessageCount = 42
		again, _ := s.store.Get(ctx, 1)
		s.Equal(3, again.MessageCount)
	})

	s.Run("unknown identity returns nil", func() {
		got, err := s.store.Get(ctx, 404)
		s.NoError(err)
		s.Nil(got)
	})
}

func (s *InMemoryStateStoreSuite) TestSweep() {
	ctx := context.Background()
	seed := func(id int64, fn func(st *models.State)) {
		_, err := s.store.Update(ctx, id, func(st *models.State) error {
			fn(st)
			return nil
		})
		s.Require().NoError(err)
	}

	// idle since long ago, nothing else: removed
	seed(1, func(st *models.State) {
		st.LastMessageAt = s.now.Add(-2 * time.Hour)
		st.MessageCount = 10
	})
	// idle but still holding a recent key attempt: kept, counter reset
	seed(2, func(st *models.State) {
		st.LastMessageAt = s.now.Add(-2 * time.Minute)
		st.MessageCount = 10
		st.KeyAttempts = []time.Time{s.now.Add(-2 * time.Hour), s.now.Add(-10 * time.Minute)}
	})
	// active: kept as is
	seed(3, func(st *models.State) {
		st.LastMessageAt = s.now.Add(-10 * time.Second)
		st.MessageCount = 5
	})
	// blocked: never swept
	seed(4, func(st *models.State) {
		st.LastMessageAt = s.now.Add(-48 * time.Hour)
		st.Block(models.BanReasonSpam, s.now.Add(-48*time.Hour))
	})

	removed, err := s.store.Sweep(ctx, s.now.Add(-time.Hour), s.now.Add(-time.Minute))
	s.Require().NoError(err)
	s.Equal(1, removed)
	s.Equal(3, s.store.Len())

	gone, _ := s.store.Get(ctx, 1)
	s.Nil(gone)

	kept, _ := s.store.Get(ctx, 2)
	s.Zero(kept.MessageCount)
	s.Equal([]time.Time{s.now.Add(-10 * time.Minute)}, kept.KeyAttempts)

	active, _ := s.store.Get(ctx, 3)
	s.Equal(5, active.MessageCount)

	blocked, _ := s.store.Get(ctx, 4)
	s.True(blocked.Blocked)
}
