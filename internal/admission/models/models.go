package models

import (
	"time"
)

// Decision is the admission verdict for one inbound message.
type Decision int

const (
	// DecisionAllow lets the message through.
	DecisionAllow Decision = iota
	// DecisionDrop discards the message without a reply.
	DecisionDrop
	// DecisionBanned means this message caused a ban; the sender gets one denial.
	DecisionBanned
	// DecisionBlocked means the identity was already blocked; ignore silently.
	DecisionBlocked
)

func (d Decision) String() string {
	switch d {
	case DecisionAllow:
		return "allow"
	case DecisionDrop:
		return "drop"
	case DecisionBanned:
		return "banned"
	case DecisionBlocked:
		return "blocked"
	}
	return "unknown"
}

// BanReason records why an identity was blocked.
type BanReason string

const (
	BanReasonSpam       BanReason = "spam"
	BanReasonKeyLockout BanReason = "key_lockout"
)

// State is the per-identity admission record.
type State struct {
	UserID        int64       `json:"user_id"`
	LastMessageAt time.Time   `json:"last_message_at"`
	MessageCount  int         `json:"message_count"`
	KeyAttempts   []time.Time `json:"key_attempts,omitempty"`
	Blocked       bool        `json:"blocked"`
	BlockedReason BanReason   `json:"blocked_reason,omitempty"`
	BlockedAt     *time.Time  `json:"blocked_at,omitempty"`
}

// NewState creates an empty state for userID.
func NewState(userID int64) *State {
	return &State{UserID: userID}
}

// RecordMessage applies the rate limit to a message arriving at now.
// A dropped message does not advance LastMessageAt.
func (s *State) RecordMessage(now time.Time, minInterval, resetAfter time.Duration, maxMessages int) Decision {
	if !s.LastMessageAt.IsZero() {
		elapsed := now.Sub(s.LastMessageAt)
		if elapsed > resetAfter {
			s.MessageCount = 0
		}
		if elapsed < minInterval {
			return DecisionDrop
		}
	}

	s.LastMessageAt = now
	s.MessageCount++
	if s.MessageCount > maxMessages {
		return DecisionBanned
	}
	return DecisionAllow
}

// PruneKeyAttempts drops attempts at or before cutoff. Attempts are kept in
// arrival order so the scan stops at the first one still inside the window.
func (s *State) PruneKeyAttempts(cutoff time.Time) {
	i := 0
	for ; i < len(s.KeyAttempts); i++ {
		if s.KeyAttempts[i].After(cutoff) {
			break
		}
	}
	if i == len(s.KeyAttempts) {
		s.KeyAttempts = nil
		return
	}
	s.KeyAttempts = s.KeyAttempts[i:]
}

// RecordKeyAttempt appends an attempt and reports whether maxAttempts is reached.
func (s *State) RecordKeyAttempt(now time.Time, maxAttempts int) bool {
	s.KeyAttempts = append(s.KeyAttempts, now)
	return len(s.KeyAttempts) >= maxAttempts
}

// Block marks the identity as permanently blocked.
func (s *State) Block(reason BanReason, now time.Time) {
	s.Blocked = true
	s.BlockedReason = reason
	s.BlockedAt = &now
}

// Clone returns a deep copy.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	c := *s
	if s.KeyAttempts != nil {
		c.KeyAttempts = append([]time.Time(nil), s.KeyAttempts...)
	}
	if s.BlockedAt != nil {
		at := *s.BlockedAt
		c.BlockedAt = &at
	}
	return &c
}
