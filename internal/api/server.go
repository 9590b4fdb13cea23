package api

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"user-session-api/internal/config"
	"user-session-api/internal/models"
	"user-session-api/internal/session"
)

// UserStore is the part of the database the API reads from.
type UserStore interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserBalances(ctx context.Context, userID uuid.UUID) (models.Balances, error)
}

type HealthCheck struct {
	Name string
	Ping func(context.Context) error
}

type Server struct {
	config   *config.Config
	store    UserStore
	sessions *session.Manager
	logger   *zap.Logger
	checks   []HealthCheck
}

func NewServer(cfg *config.Config, store UserStore, sessions *session.Manager, logger *zap.Logger, checks ...HealthCheck) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		config:   cfg,
		store:    store,
		sessions: sessions,
		logger:   logger,
		checks:   checks,
	}
}
