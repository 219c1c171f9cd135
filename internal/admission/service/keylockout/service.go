package keylockout

import (
	"context"
	"errors"
	"log/slog"
	"unicode/utf8"

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
	config  *config.KeyLockoutConfig
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

func WithConfig(cfg *config.KeyLockoutConfig) Option {
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

	defaultCfg := config.DefaultConfig().KeyLockout
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

// Counts reports whether text is long enough to be treated as a key guess.
func (s *Service) Counts(text string) bool {
	return utf8.RuneCountInString(text) > s.config.MinLength
}

// RecordAttempt registers a free-text message that did not match the admin key.
// Short texts are ignored. Reaching the attempt budget inside the window bans the identity.
func (s *Service) RecordAttempt(ctx context.Context, userID int64, text string) (models.Decision, error) {
	if !s.Counts(text) {
		return models.DecisionAllow, nil
	}
	now := requestcontext.Now(ctx)
	cutoff := now.Add(-s.config.Window)

	var decision models.Decision
	var attempts int
	_, err := s.states.Update(ctx, userID, func(st *models.State) error {
		if st.Blocked {
			decision = models.DecisionBlocked
			return nil
		}
		st.PruneKeyAttempts(cutoff)
		decision = models.DecisionAllow
		if st.RecordKeyAttempt(now, s.config.MaxAttempts) {
			st.Block(models.BanReasonKeyLockout, now)
			decision = models.DecisionBanned
		}
		attempts = len(st.KeyAttempts)
		return nil
	})
	if err != nil {
		return models.DecisionAllow, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record key attempt")
	}
	if decision == models.DecisionBlocked {
		return decision, nil
	}

	s.metrics.IncrementKeyAttempts()
	if s.logger != nil {
		s.logger.WarnContext(ctx, "admin key mismatch", "user_id", userID, "attempts", attempts)
	}
	if decision == models.DecisionBanned {
		if err := s.bans.Ban(ctx, userID, string(models.BanReasonKeyLockout), now); err != nil && s.logger != nil {
			s.logger.ErrorContext(ctx, "failed to persist ban", "user_id", userID, "error", err)
		}
		s.metrics.IncrementBans(string(models.BanReasonKeyLockout))
		ports.LogAudit(ctx, s.logger, "identity_banned",
			"user_id", userID,
			"reason", models.BanReasonKeyLockout,
			"attempts", attempts,
		)
	}
	return decision, nil
}
