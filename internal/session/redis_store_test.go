package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func newRedisTestStore(t *testing.T) *RedisStore {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}

	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, testcontainers.TerminateContainer(container))
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := redis.ParseURL(uri)
	require.NoError(t, err)

	client := redis.NewClient(opts)
	t.Cleanup(func() { client.Close() })

	return NewRedisStore(client, 7*24*time.Hour)
}

func TestRedisStore(t *testing.T) {
	store := newRedisTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC().Add(-10 * 24 * time.Hour)
	s := sessionCreatedAt(now)
	s.Token = "redisToken" + uuid.NewString()

	require.NoError(t, store.InsertSession(ctx, s))
	require.ErrorIs(t, store.InsertSession(ctx, s), ErrTokenExists)

	found, err := store.FindSessionByToken(ctx, s.Token)
	require.NoError(t, err)
	require.Equal(t, s.ID, found.ID)
	require.True(t, s.ExpiresAt.Equal(found.ExpiresAt))

	missing, err := store.FindSessionByToken(ctx, "nope")
	require.NoError(t, err)
	require.Nil(t, missing)

	renewedAt := time.Now().UTC()
	renewed, err := store.RenewSession(ctx, s, renewedAt, renewedAt.Add(DefaultLifetime))
	require.NoError(t, err)
	require.Equal(t, s.ID, renewed.ID)
	require.True(t, s.CreatedAt.Equal(renewed.CreatedAt))
	require.True(t, renewed.ExpiresAt.After(s.ExpiresAt))

	ttl, err := store.client.TTL(ctx, store.key(s.Token)).Result()
	require.NoError(t, err)
	require.Greater(t, ttl, DefaultLifetime)
}

func TestRedisStore_ManagerRoundTrip(t *testing.T) {
	store := newRedisTestStore(t)
	clock := &fixedClock{now: time.Now().UTC().Add(-9 * 24 * time.Hour)}

	manager, err := NewManager(store, nil, WithClock(clock))
	require.NoError(t, err)

	s, err := manager.Create(context.Background(), uuid.New())
	require.NoError(t, err)

	clock.now = time.Now().UTC()
	ev, err := manager.Evaluate(context.Background(), s.Token)
	require.NoError(t, err)
	require.Equal(t, StateRenewable, ev.State)

	renewed, err := manager.Renew(context.Background(), ev)
	require.NoError(t, err)
	require.True(t, renewed.UpdatedAt.After(s.UpdatedAt))
}

func TestRedisStore_RenewNeverMovesBackwards(t *testing.T) {
	store := newRedisTestStore(t)
	ctx := context.Background()

	s := sessionCreatedAt(time.Now().UTC().Add(-10 * 24 * time.Hour))
	s.Token = "redisToken" + uuid.NewString()
	require.NoError(t, store.InsertSession(ctx, s))

	later := time.Now().UTC()
	earlier := later.Add(-time.Hour)

	_, err := store.RenewSession(ctx, s, later, later.Add(DefaultLifetime))
	require.NoError(t, err)

	stale, err := store.RenewSession(ctx, s, earlier, earlier.Add(DefaultLifetime))
	require.NoError(t, err)
	require.True(t, later.Equal(stale.UpdatedAt))
	require.True(t, later.Add(DefaultLifetime).Equal(stale.ExpiresAt))

	var wg sync.WaitGroup
	errs := make([]error, maxRenewAttempts-1)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			at := earlier.Add(time.Duration(i) * time.Minute)
			_, errs[i] = store.RenewSession(ctx, s, at, at.Add(DefaultLifetime))
		}()
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	found, err := store.FindSessionByToken(ctx, s.Token)
	require.NoError(t, err)
	require.True(t, later.Equal(found.UpdatedAt))
	require.True(t, later.Add(DefaultLifetime).Equal(found.ExpiresAt))
}

func TestRedisStore_RenewMissing(t *testing.T) {
	store := newRedisTestStore(t)

	s := sessionCreatedAt(time.Now().UTC())
	s.Token = "redisMissing" + uuid.NewString()

	renewed, err := store.RenewSession(context.Background(), s, time.Now().UTC(), time.Now().UTC().Add(DefaultLifetime))
	require.NoError(t, err)
	require.Nil(t, renewed)
}
