package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"user-session-api/internal/models"
)

const maxInsertAttempts = 3

// Evaluation is the outcome of checking one token at one instant. Now is the
// single clock read every later decision for the request must use.
type Evaluation struct {
	Session *models.Session
	State   State
	Now     time.Time
}

type Manager struct {
	store    Store
	policy   Policy
	clock    Clock
	cookies  CookieOptions
	logger   *zap.Logger
	generate func() string
}

type ManagerOption func(*Manager)

func WithClock(clock Clock) ManagerOption {
	return func(m *Manager) {
		m.clock = clock
	}
}

func WithPolicy(policy Policy) ManagerOption {
	return func(m *Manager) {
		m.policy = policy
	}
}

func WithCookieOptions(opts CookieOptions) ManagerOption {
	return func(m *Manager) {
		m.cookies = opts
	}
}

func NewManager(store Store, logger *zap.Logger, opts ...ManagerOption) (*Manager, error) {
	generate, err := NewTokenGenerator()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Manager{
		store:    store,
		policy:   DefaultPolicy(),
		clock:    SystemClock,
		logger:   logger,
		generate: generate,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func (m *Manager) Policy() Policy {
	return m.policy
}

// Create opens a new session for userID starting now.
func (m *Manager) Create(ctx context.Context, userID uuid.UUID) (*models.Session, error) {
	now := m.clock.Now()

	for attempt := 1; ; attempt++ {
		s := &models.Session{
			ID:        uuid.New(),
			Token:     m.generate(),
			UserID:    userID,
			CreatedAt: now,
			UpdatedAt: now,
			ExpiresAt: m.policy.ExpiresAt(now),
		}

		err := m.store.InsertSession(ctx, s)
		if err == nil {
			return s, nil
		}
		if !errors.Is(err, ErrTokenExists) || attempt == maxInsertAttempts {
			return nil, fmt.Errorf("session: failed to create session for user %s: %w", userID, err)
		}
	}
}

// Evaluate looks the token up and classifies it. A nil Evaluation with a nil
// error means no session carries this token.
func (m *Manager) Evaluate(ctx context.Context, token string) (*Evaluation, error) {
	now := m.clock.Now()

	s, err := m.store.FindSessionByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("session: lookup failed: %w", err)
	}
	if s == nil {
		evaluationsTotal.WithLabelValues("not_found").Inc()
		return nil, nil
	}

	state := m.policy.Evaluate(s, now)
	evaluationsTotal.WithLabelValues(state.String()).Inc()

	if state == StateExpired {
		m.logger.Info("session expired",
			zap.String("session_id", s.ID.String()),
			zap.String("user_id", s.UserID.String()),
			zap.Time("expires_at", s.ExpiresAt),
		)
	}

	return &Evaluation{Session: s, State: state, Now: now}, nil
}

// Renew extends a renewable session using the evaluation's clock reading.
// Sessions that are not renewable are returned unchanged without a write.
func (m *Manager) Renew(ctx context.Context, ev *Evaluation) (*models.Session, error) {
	if ev.State != StateRenewable {
		return ev.Session, nil
	}

	renewed, err := m.store.RenewSession(ctx, ev.Session, ev.Now, m.policy.ExpiresAt(ev.Now))
	if err != nil {
		return nil, fmt.Errorf("session: renew failed: %w", err)
	}
	if renewed == nil {
		return nil, fmt.Errorf("session: renew failed: session %s disappeared", ev.Session.ID)
	}

	evaluationsTotal.WithLabelValues("renewed").Inc()
	m.logger.Debug("session renewed",
		zap.String("session_id", renewed.ID.String()),
		zap.String("user_id", renewed.UserID.String()),
		zap.Time("expires_at", renewed.ExpiresAt),
	)

	return renewed, nil
}

func (m *Manager) RenewalCookie(s *models.Session) *http.Cookie {
	return RenewalCookie(s.Token, m.policy.MaxAge(), m.cookies)
}

func (m *Manager) ClearCookie() *http.Cookie {
	return ClearCookie(m.cookies)
}
