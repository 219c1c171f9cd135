package bot

import (
	"context"

	admissionModels "recruitbot/internal/admission/models"
	"recruitbot/internal/registration/flow"
	"recruitbot/internal/report"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks Messenger

// Messenger delivers replies through the chat transport.
type Messenger interface {
	Send(ctx context.Context, chatID int64, reply flow.Reply) error
	SendDocument(ctx context.Context, chatID int64, path string) error
	AnswerCallback(ctx context.Context, callbackID string) error
}

// Admission decides whether an inbound message may be processed at all.
type Admission interface {
	IsBlocked(ctx context.Context, userID int64) (bool, error)
	CheckMessage(ctx context.Context, userID int64) (admissionModels.Decision, error)
	RecordKeyAttempt(ctx context.Context, userID int64, text string) (admissionModels.Decision, error)
}

// Registration runs the intake form.
type Registration interface {
	Start(ctx context.Context, userID int64) (flow.Reply, error)
	Cancel(ctx context.Context, userID int64) (flow.Reply, error)
	Handle(ctx context.Context, userID int64, text string) (flow.Reply, bool, error)
	Abandon(ctx context.Context, userID int64) error
}

// Access checks the operator key and remembers grants.
type Access interface {
	TryGrant(ctx context.Context, userID int64, text string) bool
	IsElevated(userID int64) bool
	Revoke(userID int64)
}

// Reports renders report files.
type Reports interface {
	Generate(ctx context.Context, period report.Period) (string, error)
}
