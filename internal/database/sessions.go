package database

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"user-session-api/internal/models"
	"user-session-api/internal/session"
)

func scanSession(row pgx.Row) (*models.Session, error) {
	var s models.Session
	err := row.Scan(
		&s.ID,
		&s.Token,
		&s.UserID,
		&s.ExpiresAt,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (q *Queries) InsertSession(ctx context.Context, s *models.Session) error {
	query := `
		INSERT INTO sessions (id, token, user_id, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := q.db.Exec(ctx, query, s.ID, s.Token, s.UserID, s.ExpiresAt, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == "sessions_token_key" {
			return session.ErrTokenExists
		}
		return err
	}
	return nil
}

// FindSessionByToken returns the row whatever its expiry.
func (q *Queries) FindSessionByToken(ctx context.Context, token string) (*models.Session, error) {
	query := `
		SELECT id, token, user_id, expires_at, created_at, updated_at
		FROM sessions
		WHERE token = $1
		LIMIT 1
	`
	return scanSession(q.db.QueryRow(ctx, query, token))
}

// FindValidSessionByToken returns the row only while expires_at is after now.
func (q *Queries) FindValidSessionByToken(ctx context.Context, token string, now time.Time) (*models.Session, error) {
	query := `
		SELECT id, token, user_id, expires_at, created_at, updated_at
		FROM sessions
		WHERE token = $1 AND expires_at > $2
		LIMIT 1
	`
	return scanSession(q.db.QueryRow(ctx, query, token, now))
}

// RenewSession never moves expires_at or updated_at backwards, so concurrent
// renewals of one session settle on the latest values.
func (q *Queries) RenewSession(ctx context.Context, s *models.Session, updatedAt, expiresAt time.Time) (*models.Session, error) {
	query := `
		UPDATE sessions
		SET updated_at = GREATEST(updated_at, $2), expires_at = GREATEST(expires_at, $3)
		WHERE id = $1
		RETURNING id, token, user_id, expires_at, created_at, updated_at
	`
	return scanSession(q.db.QueryRow(ctx, query, s.ID, updatedAt, expiresAt))
}

func (q *Queries) DeleteExpiredSessions(ctx context.Context, expiredBefore time.Time) (int64, error) {
	query := `DELETE FROM sessions WHERE expires_at <= $1`
	res, err := q.db.Exec(ctx, query, expiredBefore)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected(), nil
}
