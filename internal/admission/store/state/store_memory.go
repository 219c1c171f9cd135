package state

import (
	"context"
	"sync"
	"time"

	"recruitbot/internal/admission/models"
	"recruitbot/internal/admission/ports"
)

// InMemoryStateStore keeps admission state in process memory.
// One mutex guards every read-modify-write, which is enough at chat message rates.
type InMemoryStateStore struct {
	mu     sync.Mutex
	states map[int64]*models.State
}

func New() *InMemoryStateStore {
	return &InMemoryStateStore{states: make(map[int64]*models.State)}
}

func (s *InMemoryStateStore) Get(_ context.Context, userID int64) (*models.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[userID].Clone(), nil
}

func (s *InMemoryStateStore) Update(_ context.Context, userID int64, fn ports.UpdateFunc) (*models.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.states[userID].Clone()
	if current == nil {
		current = models.NewState(userID)
	}
	if err := fn(current); err != nil {
		return nil, err
	}
	s.states[userID] = current
	return current.Clone(), nil
}

func (s *InMemoryStateStore) Sweep(_ context.Context, keyCutoff, idleCutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, st := range s.states {
		if st.Blocked {
			continue
		}
		st.PruneKeyAttempts(keyCutoff)
		if st.LastMessageAt.Before(idleCutoff) {
			st.MessageCount = 0
			if len(st.KeyAttempts) == 0 {
				delete(s.states, id)
				removed++
			}
		}
	}
	return removed, nil
}

// Len returns the number of tracked identities.
func (s *InMemoryStateStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.states)
}
