package service

import (
	"context"

	"recruitbot/internal/registration/flow"
	"recruitbot/internal/registration/models"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks RecordStore,SessionStore

// RecordStore persists completed registrations.
type RecordStore interface {
	// Create inserts rec. A second record for the same identity returns sentinel.ErrConflict.
	Create(ctx context.Context, rec *models.Record) error
	CountByUser(ctx context.Context, userID int64) (int, error)
}

// SessionStore holds in-progress conversations.
type SessionStore interface {
	// Get returns nil when userID has no active session.
	Get(ctx context.Context, userID int64) (*flow.Session, error)
	Save(ctx context.Context, sess flow.Session) error
	Delete(ctx context.Context, userID int64) error
	Count() int
}
