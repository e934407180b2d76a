package boltdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/tradehub/tradehub-client/internal/client/storage"
	"github.com/tradehub/tradehub-client/pkg/api"
)

func createTestStorage(t *testing.T) *Storage {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "session_test.db")

	store, err := New(context.Background(), dbPath)
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	return store
}

func TestStorage_SaveGetDeleteSession(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	session := &storage.SessionData{
		User: &api.User{
			ID:    "user-id-123",
			Name:  "Test Contractor",
			Email: "a@b.com",
			Role:  api.RoleContractor,
			Trade: "plumbing",
		},
		AccessToken:  "access-token-abc",
		RefreshToken: "refresh-token-def",
		ClientID:     "client-1",
	}

	// GetSession before any save reports ErrSessionNotFound
	_, err := store.GetSession(ctx)
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)

	err = store.SaveSession(ctx, session)
	require.NoError(t, err)

	// Round-trip: everything saved comes back equal
	got, err := store.GetSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, session.AccessToken, got.AccessToken)
	assert.Equal(t, session.RefreshToken, got.RefreshToken)
	assert.Equal(t, session.ClientID, got.ClientID)
	require.NotNil(t, got.User)
	assert.Equal(t, session.User.ID, got.User.ID)
	assert.Equal(t, session.User.Email, got.User.Email)
	assert.Equal(t, session.User.Role, got.User.Role)

	// Delete clears the record
	err = store.DeleteSession(ctx)
	require.NoError(t, err)

	_, err = store.GetSession(ctx)
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)
}

func TestStorage_SaveSession_Nil(t *testing.T) {
	store := createTestStorage(t)

	err := store.SaveSession(context.Background(), nil)
	assert.Error(t, err)
}

func TestStorage_SaveSession_Overwrite(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	first := &storage.SessionData{AccessToken: "first-access", RefreshToken: "first-refresh"}
	require.NoError(t, store.SaveSession(ctx, first))

	second := &storage.SessionData{AccessToken: "second-access", RefreshToken: "second-refresh"}
	require.NoError(t, store.SaveSession(ctx, second))

	got, err := store.GetSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second-access", got.AccessToken)
	assert.Equal(t, "second-refresh", got.RefreshToken)
}

func TestStorage_DeleteSession_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	// Deleting with nothing stored must not fail
	err := store.DeleteSession(ctx)
	assert.NoError(t, err)

	// And again after a save+delete cycle
	require.NoError(t, store.SaveSession(ctx, &storage.SessionData{AccessToken: "tok"}))
	require.NoError(t, store.DeleteSession(ctx))
	assert.NoError(t, store.DeleteSession(ctx))
}

func TestStorage_GetSession_CorruptedRecord(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	// Write garbage directly into the bucket
	err := store.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSession).Put(sessionKey, []byte("{not json"))
	})
	require.NoError(t, err)

	// A corrupted record reads as "not logged in", never as an error the
	// caller has to special-case
	got, err := store.GetSession(ctx)
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)
	assert.Nil(t, got)
}

func TestStorage_GetSession_PartialRecord(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	// Old records may lack any of the fields; readers tolerate that
	err := store.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSession).Put(sessionKey, []byte(`{"access_token":"only-access"}`))
	})
	require.NoError(t, err)

	got, err := store.GetSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "only-access", got.AccessToken)
	assert.Empty(t, got.RefreshToken)
	assert.Nil(t, got.User)
}
