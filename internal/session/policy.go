package session

import (
	"time"

	"user-session-api/internal/models"
)

const (
	DefaultLifetime   = 30 * 24 * time.Hour
	DefaultRenewAfter = 9 * 24 * time.Hour
)

type State int

const (
	StateActive State = iota
	StateRenewable
	StateExpired
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateRenewable:
		return "renewable"
	case StateExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Policy decides the state of a session at a given instant. A session is
// expired once expires_at is not after now, and renewable once RenewAfter has
// elapsed since its last update.
type Policy struct {
	Lifetime   time.Duration
	RenewAfter time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		Lifetime:   DefaultLifetime,
		RenewAfter: DefaultRenewAfter,
	}
}

func (p Policy) Evaluate(s *models.Session, now time.Time) State {
	if !s.ExpiresAt.After(now) {
		return StateExpired
	}
	if now.Sub(s.UpdatedAt) >= p.RenewAfter {
		return StateRenewable
	}
	return StateActive
}

func (p Policy) ExpiresAt(now time.Time) time.Time {
	return now.Add(p.Lifetime)
}

// MaxAge is the cookie Max-Age matching Lifetime, in seconds.
func (p Policy) MaxAge() int {
	return int(p.Lifetime / time.Second)
}
