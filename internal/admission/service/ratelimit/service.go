package ratelimit

import (
	"context"
	"errors"
	"log/slog"

	"recruitbot/internal/admission/config"
	"recruitbot/internal/admission/metrics"
	"recruitbot/internal/admission/models"
	"recruitbot/internal/admission/ports"
	dErrors "recruitbot/pkg/domain-errors"
	"recruitbot/pkg/requestcontext"
)

type Service struct {
	states  ports.StateStore
	bans    ports.BanStore
	logger  *slog.Logger
	metrics *metrics.Metrics
	config  *config.RateLimitConfig
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

func WithConfig(cfg *config.RateLimitConfig) Option {
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

	defaultCfg := config.DefaultConfig().RateLimit
	svc := &Service{
		states: states,
		bans:   bans,
		config: &defaultCfg,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Check counts one inbound message from userID and returns the verdict.
// Exceeding the window budget blocks the identity and persists the ban.
func (s *Service) Check(ctx context.Context, userID int64) (models.Decision, error) {
	now := requestcontext.Now(ctx)

	var decision models.Decision
	var count int
	_, err := s.states.Update(ctx, userID, func(st *models.State) error {
		if st.Blocked {
			decision = models.DecisionBlocked
			return nil
		}
		decision = st.RecordMessage(now, s.config.MinInterval, s.config.ResetAfter, s.config.MaxMessages)
		if decision == models.DecisionBanned {
			st.Block(models.BanReasonSpam, now)
		}
		count = st.MessageCount
		return nil
	})
	if err != nil {
		return models.DecisionDrop, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update admission state")
	}

	switch decision {
	case models.DecisionDrop:
		s.metrics.IncrementDropped()
	case models.DecisionBanned:
		// The in-store block already took effect; a failed write only loses durability.
		if err := s.bans.Ban(ctx, userID, string(models.BanReasonSpam), now); err != nil && s.logger != nil {
			s.logger.ErrorContext(ctx, "failed to persist ban", "user_id", userID, "error", err)
		}
		s.metrics.IncrementBans(string(models.BanReasonSpam))
		ports.LogAudit(ctx, s.logger, "identity_banned",
			"user_id", userID,
			"reason", models.BanReasonSpam,
			"message_count", count,
		)
	}
	return decision, nil
}
