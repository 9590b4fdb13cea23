package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"user-session-api/internal/authorization"
	"user-session-api/internal/models"
)

var (
	ErrUserAlreadyExists = errors.New("username or email already in use")
	ErrUserNotFound      = errors.New("user not found")
)

const userColumns = `id, username, email, features, notifications, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Features,
		&user.Notifications,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

type CreateUserParams struct {
	Username string
	Email    string
	Features []string
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (*models.User, error) {
	features := arg.Features
	if features == nil {
		features = []string{}
	}

	query := `
		INSERT INTO users (username, email, features)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns
	user, err := scanUser(q.db.QueryRow(ctx, query, arg.Username, arg.Email, features))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}
	return user, nil
}

func (q *Queries) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(q.db.QueryRow(ctx, query, id))
}

func (q *Queries) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(username) = LOWER($1)`
	return scanUser(q.db.QueryRow(ctx, query, username))
}

// AddFeatures appends the features the user does not carry yet, keeping order.
func (q *Queries) AddFeatures(ctx context.Context, id uuid.UUID, features []string) (*models.User, error) {
	query := `
		UPDATE users
		SET features = features || ARRAY(
				SELECT f FROM unnest($2::varchar[]) AS f WHERE f <> ALL(users.features)
			),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns
	return scanUser(q.db.QueryRow(ctx, query, id, features))
}

func (q *Queries) RemoveFeatures(ctx context.Context, id uuid.UUID, features []string) (*models.User, error) {
	query := `
		UPDATE users
		SET features = ARRAY(
				SELECT f FROM unnest(users.features) AS f WHERE f <> ALL($2::varchar[])
			)::varchar[],
			updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns
	return scanUser(q.db.QueryRow(ctx, query, id, features))
}

// ActivateUser grants the activated-account features inside one transaction.
func (s *Store) ActivateUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var activated *models.User

	err := s.ExecTx(ctx, func(q *Queries) error {
		locked, err := scanUser(q.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			return err
		}
		if locked == nil {
			return ErrUserNotFound
		}

		activated, err = q.AddFeatures(ctx, id, authorization.ActivatedUserFeatures)
		return err
	})
	if err != nil {
		return nil, err
	}

	return activated, nil
}
