package session

import (
	"context"
	"errors"
	"time"

	"user-session-api/internal/models"
)

var ErrTokenExists = errors.New("session token already exists")

// Store persists sessions. FindSessionByToken returns (nil, nil) when no
// record matches and never filters or deletes expired records.
type Store interface {
	InsertSession(ctx context.Context, s *models.Session) error
	FindSessionByToken(ctx context.Context, token string) (*models.Session, error)
	RenewSession(ctx context.Context, s *models.Session, updatedAt, expiresAt time.Time) (*models.Session, error)
}
