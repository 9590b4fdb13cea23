package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"user-session-api/internal/models"
)

// RedisStore keeps sessions as JSON values keyed by token. Keys outlive the
// session by retention so expired records stay readable until Redis evicts them.
type RedisStore struct {
	client    *redis.Client
	prefix    string
	retention time.Duration
}

func NewRedisStore(client *redis.Client, retention time.Duration) *RedisStore {
	return &RedisStore{
		client:    client,
		prefix:    "session:",
		retention: retention,
	}
}

func (r *RedisStore) key(token string) string {
	return r.prefix + token
}

func (r *RedisStore) ttl(s *models.Session) time.Duration {
	ttl := s.ExpiresAt.Sub(s.UpdatedAt) + r.retention
	if ttl <= 0 {
		return time.Second
	}
	return ttl
}

func (r *RedisStore) InsertSession(ctx context.Context, s *models.Session) error {
	if s.Token == "" {
		return fmt.Errorf("session: missing token")
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session: failed to marshal: %w", err)
	}

	ok, err := r.client.SetNX(ctx, r.key(s.Token), data, r.ttl(s)).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrTokenExists
	}
	return nil
}

func (r *RedisStore) FindSessionByToken(ctx context.Context, token string) (*models.Session, error) {
	val, err := r.client.Get(ctx, r.key(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var s models.Session
	if err := json.Unmarshal(val, &s); err != nil {
		return nil, fmt.Errorf("session: failed to unmarshal: %w", err)
	}

	return &s, nil
}

const maxRenewAttempts = 5

// RenewSession rewrites the record under WATCH, so a renewal carrying an older
// clock reading never lowers updated_at or expires_at.
func (r *RedisStore) RenewSession(ctx context.Context, s *models.Session, updatedAt, expiresAt time.Time) (*models.Session, error) {
	key := r.key(s.Token)

	for attempt := 1; attempt <= maxRenewAttempts; attempt++ {
		var renewed *models.Session
		err := r.client.Watch(ctx, func(tx *redis.Tx) error {
			val, err := tx.Get(ctx, key).Bytes()
			if errors.Is(err, redis.Nil) {
				return nil
			}
			if err != nil {
				return err
			}

			var current models.Session
			if err := json.Unmarshal(val, &current); err != nil {
				return fmt.Errorf("session: failed to unmarshal: %w", err)
			}
			if updatedAt.After(current.UpdatedAt) {
				current.UpdatedAt = updatedAt
			}
			if expiresAt.After(current.ExpiresAt) {
				current.ExpiresAt = expiresAt
			}

			data, err := json.Marshal(current)
			if err != nil {
				return fmt.Errorf("session: failed to marshal: %w", err)
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, data, r.ttl(&current))
				return nil
			})
			if err != nil {
				return err
			}
			renewed = &current
			return nil
		}, key)

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return renewed, nil
	}

	return nil, fmt.Errorf("session: renew of %s kept conflicting", s.ID)
}
