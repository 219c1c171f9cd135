// Package service is the admission entry point used by the bot dispatcher.
// It composes the message rate limit and the admin key lockout over one state store.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"recruitbot/internal/admission/config"
	"recruitbot/internal/admission/metrics"
	"recruitbot/internal/admission/models"
	"recruitbot/internal/admission/ports"
	"recruitbot/internal/admission/service/keylockout"
	"recruitbot/internal/admission/service/ratelimit"
	dErrors "recruitbot/pkg/domain-errors"
	"recruitbot/pkg/requestcontext"
)

type Service struct {
	states  ports.StateStore
	bans    ports.BanStore
	rate    *ratelimit.Service
	keys    *keylockout.Service
	logger  *slog.Logger
	metrics *metrics.Metrics
	config  *config.Config
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		s.config = cfg
	}
}

func New(states ports.StateStore, bans ports.BanStore, opts ...Option) (*Service, error) {
	if states == nil {
		return nil, errors.New("admission state store is required")
	}
	if bans == nil {
		return nil, errors.New("ban store is required")
	}

	defaultCfg := config.DefaultConfig()
	svc := &Service{
		states: states,
		bans:   bans,
		config: &defaultCfg,
	}
	for _, opt := range opts {
		opt(svc)
	}

	var err error
	svc.rate, err = ratelimit.New(states, bans,
		ratelimit.WithLogger(svc.logger),
		ratelimit.WithMetrics(svc.metrics),
		ratelimit.WithConfig(&svc.config.RateLimit),
	)
	if err != nil {
		return nil, err
	}
	svc.keys, err = keylockout.New(states, bans,
		keylockout.WithLogger(svc.logger),
		keylockout.WithMetrics(svc.metrics),
		keylockout.WithConfig(&svc.config.KeyLockout),
	)
	if err != nil {
		return nil, err
	}
	return svc, nil
}

// IsBlocked reports whether userID is banned, either in live admission state
// or in the persisted ban list.
func (s *Service) IsBlocked(ctx context.Context, userID int64) (bool, error) {
	st, err := s.states.Get(ctx, userID)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read admission state")
	}
	if st != nil && st.Blocked {
		return true, nil
	}
	banned, err := s.bans.IsBanned(ctx, userID)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read ban list")
	}
	return banned, nil
}

// CheckMessage applies the per-identity rate limit to one inbound message.
func (s *Service) CheckMessage(ctx context.Context, userID int64) (models.Decision, error) {
	return s.rate.Check(ctx, userID)
}

// RecordKeyAttempt counts a free-text message that did not match the admin key.
func (s *Service) RecordKeyAttempt(ctx context.Context, userID int64, text string) (models.Decision, error) {
	return s.keys.RecordAttempt(ctx, userID, text)
}

// Sweep drops expired key attempts and idle counters as of the context time.
func (s *Service) Sweep(ctx context.Context) (int, error) {
	now := requestcontext.Now(ctx)
	removed, err := s.states.Sweep(ctx,
		now.Add(-s.config.KeyLockout.Window),
		now.Add(-s.config.RateLimit.ResetAfter),
	)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to sweep admission state")
	}
	s.metrics.SetSwept(removed)
	if s.logger != nil {
		s.logger.DebugContext(ctx, "admission sweep finished", "removed", removed)
	}
	return removed, nil
}

// RunSweeper calls Sweep every SweepInterval until ctx is cancelled.
func (s *Service) RunSweeper(ctx context.Context) error {
	ticker := time.NewTicker(s.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil && s.logger != nil {
				s.logger.ErrorContext(ctx, "admission sweep failed", "error", err)
			}
		}
	}
}
