// Package ports defines shared interfaces for the admission module.
// Interfaces are placed here when consumed by multiple services to avoid duplication.
package ports

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks StateStore,BanStore

import (
	"context"
	"log/slog"
	"time"

	"recruitbot/internal/admission/models"
	"recruitbot/pkg/requestcontext"
)

// UpdateFunc mutates a state in place. The store persists whatever the function leaves behind.
type UpdateFunc func(state *models.State) error

// StateStore holds per-identity admission state.
type StateStore interface {
	// Get returns a copy of the state, or nil if the identity was never seen.
	Get(ctx context.Context, userID int64) (*models.State, error)

	// Update runs fn on the current state (a fresh one on first contact) as a single
	// read-modify-write and returns the stored result.
	Update(ctx context.Context, userID int64, fn UpdateFunc) (*models.State, error)

	// Sweep trims key attempts at or before keyCutoff, resets counters idle since
	// idleCutoff and deletes states left with nothing to track. Blocked states are kept.
	Sweep(ctx context.Context, keyCutoff, idleCutoff time.Time) (removed int, err error)
}

// BanStore persists bans so they outlive the process.
type BanStore interface {
	Ban(ctx context.Context, userID int64, reason string, at time.Time) error
	IsBanned(ctx context.Context, userID int64) (bool, error)
}

// LogAudit is a shared helper for logging audit events across admission services.
func LogAudit(ctx context.Context, logger *slog.Logger, event string, attrs ...any) {
	if logger == nil {
		return
	}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attrs = append(attrs, "request_id", requestID)
	}
	args := append(attrs, "event", event, "log_type", "audit")
	logger.InfoContext(ctx, event, args...)
}
