package ratelimit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"recruitbot/internal/admission/config"
	"recruitbot/internal/admission/metrics"
	"recruitbot/internal/admission/models"
	"recruitbot/internal/admission/ports/mocks"
	stateStore "recruitbot/internal/admission/store/state"
	dErrors "recruitbot/pkg/domain-errors"
	"recruitbot/pkg/requestcontext"
)

// =============================================================================
// Rate Limit Service Test Suite
// =============================================================================

type RateLimitServiceSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	states  *stateStore.InMemoryStateStore
	bans    *mocks.MockBanStore
	metrics *metrics.Metrics
	service *Service
	start   time.Time
}

func TestRateLimitServiceSuite(t *testing.T) {
	suite.Run(t, new(RateLimitServiceSuite))
}

func (s *RateLimitServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.states = stateStore.New()
	s.bans = mocks.NewMockBanStore(s.ctrl)
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.start = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	var err error
	s.service, err = New(s.states, s.bans,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithMetrics(s.metrics),
	)
	s.Require().NoError(err)
}

func (s *RateLimitServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *RateLimitServiceSuite) at(offset time.Duration) context.Context {
	return requestcontext.WithTime(context.Background(), s.start.Add(offset))
}

// =============================================================================
// Constructor Tests
// =============================================================================

func (s *RateLimitServiceSuite) TestNew() {
	s.Run("nil state store returns error", func() {
		_, err := New(nil, s.bans)
		s.Error(err)
		s.Contains(err.Error(), "admission state store is required")
	})

	s.Run("nil ban store returns error", func() {
		_, err := New(s.states, nil)
		s.Error(err)
		s.Contains(err.Error(), "ban store is required")
	})

	s.Run("defaults apply without options", func() {
		svc, err := New(s.states, s.bans)
		s.Require().NoError(err)
		s.Equal(500*time.Millisecond, svc.config.MinInterval)
		s.Equal(50, svc.config.MaxMessages)
	})
}

// =============================================================================
// Check Tests
// =============================================================================

func (s *RateLimitServiceSuite) TestCheck() {
	s.Run("message closer than the minimum interval is dropped", func() {
		decision, err := s.service.Check(s.at(0), 1)
		s.Require().NoError(err)
		s.Equal(models.DecisionAllow, decision)

		decision, err = s.service.Check(s.at(100*time.Millisecond), 1)
		s.Require().NoError(err)
		s.Equal(models.DecisionDrop, decision)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.MessagesDropped))

		// dropped message did not move the clock, so 500ms after the first is allowed
		decision, err = s.service.Check(s.at(500*time.Millisecond), 1)
		s.Require().NoError(err)
		s.Equal(models.DecisionAllow, decision)
	})

	s.Run("fifty first message inside the window bans", func() {
		s.bans.EXPECT().
			Ban(gomock.Any(), int64(2), "spam", gomock.Any()).
			Return(nil).
			Times(1)

		var decision models.Decision
		for i := range 51 {
			var err error
			decision, err = s.service.Check(s.at(time.Duration(i)*600*time.Millisecond), 2)
			s.Require().NoError(err)
			if i < 50 {
				s.Require().Equal(models.DecisionAllow, decision, "message %d", i+1)
			}
		}
		s.Equal(models.DecisionBanned, decision)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.Bans.WithLabelValues("spam")))

		st, err := s.states.Get(context.Background(), 2)
		s.Require().NoError(err)
		s.True(st.Blocked)
		s.Equal(models.BanReasonSpam, st.BlockedReason)
	})

	s.Run("blocked identity is reported without a second ban", func() {
		decision, err := s.service.Check(s.at(time.Hour), 2)
		s.Require().NoError(err)
		s.Equal(models.DecisionBlocked, decision)
	})

	s.Run("quiet period resets the counter", func() {
		for i := range 50 {
			decision, err := s.service.Check(s.at(time.Duration(i)*time.Second), 3)
			s.Require().NoError(err)
			s.Require().Equal(models.DecisionAllow, decision)
		}
		for i := range 50 {
			offset := 49*time.Second + 61*time.Second + time.Duration(i)*time.Second
			decision, err := s.service.Check(s.at(offset), 3)
			s.Require().NoError(err)
			s.Require().Equal(models.DecisionAllow, decision)
		}
	})

	s.Run("ban persistence failure still blocks", func() {
		s.bans.EXPECT().
			Ban(gomock.Any(), int64(4), "spam", gomock.Any()).
			Return(errors.New("disk full"))

		svc, err := New(s.states, s.bans, WithConfig(oneMessageBudget()))
		s.Require().NoError(err)

		_, err = svc.Check(s.at(0), 4)
		s.Require().NoError(err)
		decision, err := svc.Check(s.at(time.Second), 4)
		s.Require().NoError(err)
		s.Equal(models.DecisionBanned, decision)

		decision, err = svc.Check(s.at(2*time.Second), 4)
		s.Require().NoError(err)
		s.Equal(models.DecisionBlocked, decision)
	})
}

func (s *RateLimitServiceSuite) TestCheckStoreFailure() {
	states := mocks.NewMockStateStore(s.ctrl)
	states.EXPECT().Update(gomock.Any(), int64(5), gomock.Any()).Return(nil, errors.New("connection refused"))

	svc, err := New(states, s.bans)
	s.Require().NoError(err)

	_, err = svc.Check(s.at(0), 5)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func oneMessageBudget() *config.RateLimitConfig {
	cfg := config.DefaultConfig().RateLimit
	cfg.MaxMessages = 1
	return &cfg
}
