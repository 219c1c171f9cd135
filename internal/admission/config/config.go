package config

import "time"

// Config holds admission thresholds. Zero values are never valid; start from DefaultConfig.
type Config struct {
	RateLimit  RateLimitConfig
	KeyLockout KeyLockoutConfig
	// SweepInterval is how often idle counters and stale attempts are dropped.
	SweepInterval time.Duration
}

// RateLimitConfig bounds how fast one identity may send messages.
type RateLimitConfig struct {
	// MinInterval: messages closer than this to the previous one are dropped silently.
	MinInterval time.Duration
	// ResetAfter: the message counter restarts once this much time passed since the last message.
	ResetAfter time.Duration
	// MaxMessages: exceeding this count inside the window bans the identity.
	MaxMessages int
}

// KeyLockoutConfig bounds guesses at the admin secret.
type KeyLockoutConfig struct {
	// MinLength: only texts longer than this many characters count as key attempts.
	MinLength int
	// MaxAttempts within Window bans the identity.
	MaxAttempts int
	Window      time.Duration
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		RateLimit: RateLimitConfig{
			MinInterval: 500 * time.Millisecond,
			ResetAfter:  60 * time.Second,
			MaxMessages: 50,
		},
		KeyLockout: KeyLockoutConfig{
			MinLength:   20,
			MaxAttempts: 3,
			Window:      time.Hour,
		},
		SweepInterval: 10 * time.Minute,
	}
}

// Retention is how long an unblocked state is worth keeping after its last activity.
func (c Config) Retention() time.Duration {
	return max(c.RateLimit.ResetAfter, c.KeyLockout.Window)
}
