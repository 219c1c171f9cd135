// Package service runs registration sessions: it opens them on /start, feeds answers
// through the step machine and persists the completed form.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"recruitbot/internal/platform/metrics"
	"recruitbot/internal/registration/flow"
	"recruitbot/internal/registration/models"
	dErrors "recruitbot/pkg/domain-errors"
	"recruitbot/pkg/platform/sentinel"
	"recruitbot/pkg/requestcontext"
)

type Service struct {
	records  RecordStore
	sessions SessionStore
	machine  *flow.Machine
	logger   *slog.Logger
	metrics  *metrics.Metrics
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

func New(records RecordStore, sessions SessionStore, opts ...Option) (*Service, error) {
	if records == nil {
		return nil, errors.New("record store is required")
	}
	if sessions == nil {
		return nil, errors.New("session store is required")
	}
	svc := &Service{
		records:  records,
		sessions: sessions,
		machine:  flow.New(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Start opens a fresh session for userID, discarding any session in progress.
// Identities with no attempts left get a refusal instead. Callers reject banned
// identities before calling Start.
func (s *Service) Start(ctx context.Context, userID int64) (flow.Reply, error) {
	completed, err := s.records.CountByUser(ctx, userID)
	if err != nil {
		return flow.Reply{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count registrations")
	}
	if completed >= models.MaxAttempts {
		return flow.Reply{Text: textAttemptsExhausted}, nil
	}

	sess := flow.NewSession(userID, completed, requestcontext.Now(ctx))
	if err := s.sessions.Save(ctx, sess); err != nil {
		return flow.Reply{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to open session")
	}
	s.metrics.SetActiveSessions(s.sessions.Count())

	first := s.machine.Prompt(sess.Step)
	return flow.Reply{
		Text:     fmt.Sprintf(textGreeting, models.RemainingAttempts(completed)) + first.Text,
		Keyboard: first.Keyboard,
		HTML:     true,
	}, nil
}

// Cancel discards the session for userID without persisting anything.
func (s *Service) Cancel(ctx context.Context, userID int64) (flow.Reply, error) {
	active, err := s.Active(ctx, userID)
	if err != nil {
		return flow.Reply{}, err
	}
	if err := s.Abandon(ctx, userID); err != nil {
		return flow.Reply{}, err
	}
	if active {
		s.metrics.IncrementRegistrations(metrics.OutcomeCancelled)
	}
	return flow.Reply{Text: textCancelled, Keyboard: flow.KeyboardRemove}, nil
}

// Active reports whether userID is in the middle of the form.
func (s *Service) Active(ctx context.Context, userID int64) (bool, error) {
	sess, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load session")
	}
	return sess != nil, nil
}

// Abandon drops the session silently.
func (s *Service) Abandon(ctx context.Context, userID int64) error {
	if err := s.sessions.Delete(ctx, userID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete session")
	}
	s.metrics.SetActiveSessions(s.sessions.Count())
	return nil
}

// Handle feeds one answer to the active session. handled is false when userID has
// no session, so the caller can treat the text as free input.
func (s *Service) Handle(ctx context.Context, userID int64, text string) (reply flow.Reply, handled bool, err error) {
	sess, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return flow.Reply{}, false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load session")
	}
	if sess == nil {
		return flow.Reply{}, false, nil
	}

	now := requestcontext.Now(ctx)
	out := s.machine.Apply(*sess, text, now)
	if !out.Accepted {
		return out.Reply, true, nil
	}
	if out.Done {
		return s.complete(ctx, out.Session), true, nil
	}
	if err := s.sessions.Save(ctx, out.Session); err != nil {
		return flow.Reply{}, true, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save session")
	}
	return out.Reply, true, nil
}

// complete persists the finished form. The session ends whatever the outcome.
func (s *Service) complete(ctx context.Context, sess flow.Session) flow.Reply {
	if err := s.Abandon(ctx, sess.UserID); err != nil && s.logger != nil {
		s.logger.ErrorContext(ctx, "failed to close session", "user_id", sess.UserID, "error", err)
	}

	rec, err := models.NewRecord(sess.UserID, sess.Fields, requestcontext.Now(ctx))
	if err == nil {
		err = s.records.Create(ctx, rec)
	}

	switch {
	case err == nil:
		s.metrics.IncrementRegistrations(metrics.OutcomeSaved)
		if s.logger != nil {
			s.logger.InfoContext(ctx, "registration saved",
				"user_id", sess.UserID,
				"attempt", sess.Attempts+1,
			)
		}
		return flow.Reply{Text: textSaved, Keyboard: flow.KeyboardRemove}
	case errors.Is(err, sentinel.ErrConflict):
		s.metrics.IncrementRegistrations(metrics.OutcomeDuplicate)
		if s.logger != nil {
			s.logger.WarnContext(ctx, "duplicate registration",
				"user_id", sess.UserID,
				"event", "duplicate_registration",
				"log_type", "audit",
				"request_id", requestcontext.RequestID(ctx),
			)
		}
		return flow.Reply{Text: textDuplicate, Keyboard: flow.KeyboardRemove}
	default:
		s.metrics.IncrementRegistrations(metrics.OutcomeFailed)
		if s.logger != nil {
			s.logger.ErrorContext(ctx, "failed to save registration", "user_id", sess.UserID, "error", err)
		}
		return flow.Reply{Text: textSaveFailed, Keyboard: flow.KeyboardRemove}
	}
}
