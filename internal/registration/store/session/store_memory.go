package session

import (
	"context"
	"sync"

	"recruitbot/internal/registration/flow"
)

// InMemorySessionStore keeps in-progress conversations keyed by identity.
// Sessions are transient by definition; nothing survives a restart.
type InMemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[int64]flow.Session
}

func New() *InMemorySessionStore {
	return &InMemorySessionStore{sessions: make(map[int64]flow.Session)}
}

// Get returns the session for userID, or nil when none is active.
func (s *InMemorySessionStore) Get(_ context.Context, userID int64) (*flow.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return nil, nil
	}
	sess.Fields = sess.Fields.Clone()
	return &sess, nil
}

func (s *InMemorySessionStore) Save(_ context.Context, sess flow.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.Fields = sess.Fields.Clone()
	s.sessions[sess.UserID] = sess
	return nil
}

// Delete drops the session; deleting a missing session is a no-op.
func (s *InMemorySessionStore) Delete(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}

// Count returns the number of active sessions.
func (s *InMemorySessionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
