package record

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"recruitbot/internal/registration/models"
	"recruitbot/pkg/platform/sentinel"
)

// InMemoryRecordStore mirrors SQLStore semantics without a database.
// Used by service and dispatcher tests.
type InMemoryRecordStore struct {
	mu      sync.RWMutex
	records map[int64]models.Record
	banned  map[int64]string
}

func NewInMemory() *InMemoryRecordStore {
	return &InMemoryRecordStore{
		records: make(map[int64]models.Record),
		banned:  make(map[int64]string),
	}
}

func (s *InMemoryRecordStore) Create(_ context.Context, rec *models.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[rec.UserID]; exists {
		return fmt.Errorf("create record for user %d: %w", rec.UserID, sentinel.ErrConflict)
	}
	stored := *rec
	stored.IsBanned = false
	s.records[rec.UserID] = stored
	return nil
}

func (s *InMemoryRecordStore) CountByUser(_ context.Context, userID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.records[userID]; ok {
		return 1, nil
	}
	return 0, nil
}

func (s *InMemoryRecordStore) IsBanned(_ context.Context, userID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.banned[userID]; ok {
		return true, nil
	}
	return s.records[userID].IsBanned, nil
}

func (s *InMemoryRecordStore) Ban(_ context.Context, userID int64, reason string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.records[userID]; ok {
		rec.IsBanned = true
		s.records[userID] = rec
	}
	if _, ok := s.banned[userID]; !ok {
		s.banned[userID] = reason
	}
	return nil
}

func (s *InMemoryRecordStore) ListSince(_ context.Context, cutoff time.Time) ([]*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Record
	for _, rec := range s.records {
		if !rec.RegisteredAt.Before(cutoff) {
			r := rec
			out = append(out, &r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].RegisteredAt.After(out[j].RegisteredAt)
	})
	return out, nil
}

func (s *InMemoryRecordStore) Get(_ context.Context, userID int64) (*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &rec, nil
}

// Put stores rec unconditionally. Test helper for seeding timestamps.
func (s *InMemoryRecordStore) Put(rec models.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.UserID] = rec
}
