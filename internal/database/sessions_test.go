package database

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"user-session-api/internal/models"
	"user-session-api/internal/session"
)

func createTestSession(t *testing.T, userID uuid.UUID, createdAt time.Time) *models.Session {
	s := &models.Session{
		ID:        uuid.New(),
		Token:     strings.ReplaceAll(uuid.NewString()+uuid.NewString()+uuid.NewString(), "-", ""),
		UserID:    userID,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
		ExpiresAt: createdAt.Add(session.DefaultLifetime),
	}
	require.NoError(t, testStore.InsertSession(context.Background(), s))

	stored, err := testStore.FindSessionByToken(context.Background(), s.Token)
	require.NoError(t, err)
	require.NotNil(t, stored)
	return stored
}

func TestInsertAndFindSession(t *testing.T) {
	user := createRandomUser(t)
	s := createTestSession(t, user.ID, time.Now().UTC())

	require.Equal(t, user.ID, s.UserID)
	require.True(t, s.CreatedAt.Equal(s.UpdatedAt))

	err := testStore.InsertSession(context.Background(), &models.Session{
		ID:        uuid.New(),
		Token:     s.Token,
		UserID:    user.ID,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		ExpiresAt: s.ExpiresAt,
	})
	require.ErrorIs(t, err, session.ErrTokenExists)

	missing, err := testStore.FindSessionByToken(context.Background(), "missing")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestFindValidSessionByToken(t *testing.T) {
	user := createRandomUser(t)
	now := time.Now().UTC()
	expired := createTestSession(t, user.ID, now.Add(-30*24*time.Hour-time.Minute))

	valid, err := testStore.FindValidSessionByToken(context.Background(), expired.Token, now)
	require.NoError(t, err)
	require.Nil(t, valid)

	stale, err := testStore.FindSessionByToken(context.Background(), expired.Token)
	require.NoError(t, err)
	require.Equal(t, expired, stale, "expired sessions are not deleted on read")

	fresh := createTestSession(t, user.ID, now)
	valid, err = testStore.FindValidSessionByToken(context.Background(), fresh.Token, now)
	require.NoError(t, err)
	require.Equal(t, fresh.ID, valid.ID)
}

func TestRenewSession(t *testing.T) {
	user := createRandomUser(t)
	now := time.Now().UTC()
	before := createTestSession(t, user.ID, now.Add(-9*24*time.Hour))

	renewed, err := testStore.RenewSession(context.Background(), before, now, now.Add(session.DefaultLifetime))
	require.NoError(t, err)
	require.Equal(t, before.ID, renewed.ID)
	require.Equal(t, before.Token, renewed.Token)
	require.True(t, before.CreatedAt.Equal(renewed.CreatedAt))
	require.True(t, renewed.ExpiresAt.After(before.ExpiresAt))
	require.True(t, renewed.UpdatedAt.After(before.UpdatedAt))

	stale, err := testStore.RenewSession(context.Background(), before, before.UpdatedAt, before.ExpiresAt)
	require.NoError(t, err)
	require.True(t, stale.ExpiresAt.Equal(renewed.ExpiresAt), "an older renewal must not shorten the session")

	gone, err := testStore.RenewSession(context.Background(), &models.Session{ID: uuid.New()}, now, now)
	require.NoError(t, err)
	require.Nil(t, gone)
}

func TestDeleteExpiredSessions(t *testing.T) {
	user := createRandomUser(t)
	now := time.Now().UTC()
	old := createTestSession(t, user.ID, now.Add(-60*24*time.Hour))
	recent := createTestSession(t, user.ID, now.Add(-31*24*time.Hour))
	active := createTestSession(t, user.ID, now)

	deleted, err := testStore.DeleteExpiredSessions(context.Background(), now.Add(-7*24*time.Hour))
	require.NoError(t, err)
	require.GreaterOrEqual(t, deleted, int64(1))

	found, err := testStore.FindSessionByToken(context.Background(), old.Token)
	require.NoError(t, err)
	require.Nil(t, found)

	for _, kept := range []*models.Session{recent, active} {
		found, err = testStore.FindSessionByToken(context.Background(), kept.Token)
		require.NoError(t, err)
		require.NotNil(t, found)
	}
}

func TestManagerOnPostgres(t *testing.T) {
	user := createRandomUser(t)
	manager, err := session.NewManager(testStore, nil)
	require.NoError(t, err)

	created, err := manager.Create(context.Background(), user.ID)
	require.NoError(t, err)

	ev, err := manager.Evaluate(context.Background(), created.Token)
	require.NoError(t, err)
	require.Equal(t, session.StateActive, ev.State)
	require.Equal(t, created.ID, ev.Session.ID)
}
