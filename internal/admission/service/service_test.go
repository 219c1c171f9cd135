package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"recruitbot/internal/admission/config"
	"recruitbot/internal/admission/models"
	"recruitbot/internal/admission/ports/mocks"
	stateStore "recruitbot/internal/admission/store/state"
	dErrors "recruitbot/pkg/domain-errors"
	"recruitbot/pkg/requestcontext"
)

type AdmissionServiceSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	states  *stateStore.InMemoryStateStore
	bans    *mocks.MockBanStore
	service *Service
	start   time.Time
}

func TestAdmissionServiceSuite(t *testing.T) {
	suite.Run(t, new(AdmissionServiceSuite))
}

func (s *AdmissionServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.states = stateStore.New()
	s.bans = mocks.NewMockBanStore(s.ctrl)
	s.start = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	var err error
	s.service, err = New(s.states, s.bans, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	s.Require().NoError(err)
}

func (s *AdmissionServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *AdmissionServiceSuite) at(offset time.Duration) context.Context {
	return requestcontext.WithTime(context.Background(), s.start.Add(offset))
}

// =============================================================================
// IsBlocked Tests
// =============================================================================

func (s *AdmissionServiceSuite) TestIsBlocked() {
	s.Run("unknown identity consults the persisted ban list", func() {
		s.bans.EXPECT().IsBanned(gomock.Any(), int64(1)).Return(false, nil)
		blocked, err := s.service.IsBlocked(s.at(0), 1)
		s.Require().NoError(err)
		s.False(blocked)
	})

	s.Run("persisted ban survives a fresh state store", func() {
		s.bans.EXPECT().IsBanned(gomock.Any(), int64(2)).Return(true, nil)
		blocked, err := s.service.IsBlocked(s.at(0), 2)
		s.Require().NoError(err)
		s.True(blocked)
	})

	s.Run("live block short-circuits the ban list", func() {
		s.bans.EXPECT().Ban(gomock.Any(), int64(3), "key_lockout", gomock.Any()).Return(nil)
		guess := strings.Repeat("k", 30)
		for i := range 3 {
			_, err := s.service.RecordKeyAttempt(s.at(time.Duration(i)*time.Minute), 3, guess)
			s.Require().NoError(err)
		}
		blocked, err := s.service.IsBlocked(s.at(5*time.Minute), 3)
		s.Require().NoError(err)
		s.True(blocked)
	})

	s.Run("ban list failure is internal", func() {
		s.bans.EXPECT().IsBanned(gomock.Any(), int64(4)).Return(false, errors.New("locked"))
		_, err := s.service.IsBlocked(s.at(0), 4)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

// =============================================================================
// Sweep Tests
// =============================================================================

func (s *AdmissionServiceSuite) TestSweep() {
	decision, err := s.service.CheckMessage(s.at(0), 10)
	s.Require().NoError(err)
	s.Equal(models.DecisionAllow, decision)

	removed, err := s.service.Sweep(s.at(30 * time.Second))
	s.Require().NoError(err)
	s.Zero(removed)

	removed, err = s.service.Sweep(s.at(2 * time.Minute))
	s.Require().NoError(err)
	s.Equal(1, removed)
	s.Zero(s.states.Len())
}

func (s *AdmissionServiceSuite) TestRunSweeperStopsOnCancel() {
	cfg := config.DefaultConfig()
	cfg.SweepInterval = time.Millisecond
	svc, err := New(s.states, s.bans, WithConfig(&cfg))
	s.Require().NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.RunSweeper(ctx) }()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		s.NoError(err)
	case <-time.After(time.Second):
		s.Fail("sweeper did not stop")
	}
}
