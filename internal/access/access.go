// Package access checks inbound text against the operator key and remembers which
// identities were granted elevated access.
package access

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"recruitbot/internal/access/secrets"
	"recruitbot/pkg/requestcontext"
)

// Matcher decides whether a text is the operator key.
type Matcher interface {
	Matches(text string) bool
}

// PlainKey matches a key held in memory.
type PlainKey string

func (k PlainKey) Matches(text string) bool {
	return text != "" && secrets.Equal(text, string(k))
}

// HashedKey matches against a bcrypt hash so the key itself never sits in the environment.
type HashedKey string

func (h HashedKey) Matches(text string) bool {
	return text != "" && secrets.Verify(text, string(h)) == nil
}

// NewMatcher prefers the hash when both are set.
func NewMatcher(plain, hash string) (Matcher, error) {
	switch {
	case hash != "":
		return HashedKey(hash), nil
	case plain != "":
		return PlainKey(plain), nil
	}
	return nil, errors.New("admin key is not configured")
}

type Service struct {
	matcher Matcher
	logger  *slog.Logger

	mu     sync.RWMutex
	grants map[int64]time.Time
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(matcher Matcher, opts ...Option) (*Service, error) {
	if matcher == nil {
		return nil, errors.New("key matcher is required")
	}
	svc := &Service{
		matcher: matcher,
		grants:  make(map[int64]time.Time),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// TryGrant grants elevated access to userID when text is the operator key.
func (s *Service) TryGrant(ctx context.Context, userID int64, text string) bool {
	if !s.matcher.Matches(text) {
		return false
	}
	now := requestcontext.Now(ctx)

	s.mu.Lock()
	s.grants[userID] = now
	s.mu.Unlock()

	if s.logger != nil {
		args := []any{"user_id", userID, "event", "elevated_access_granted", "log_type", "audit"}
		if requestID := requestcontext.RequestID(ctx); requestID != "" {
			args = append(args, "request_id", requestID)
		}
		s.logger.InfoContext(ctx, "elevated_access_granted", args...)
	}
	return true
}

// IsElevated reports whether userID holds a grant.
func (s *Service) IsElevated(userID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.grants[userID]
	return ok
}

// Revoke removes a grant. Bans call this so a banned operator loses access.
func (s *Service) Revoke(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.grants, userID)
}
