package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/carbonadmin/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKVStore_Get_Missing(t *testing.T) {
	store := NewSQLiteKVStore(testutil.NewTestDB(t))

	_, err := store.Get(context.Background(), "auth_token")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestKVStore_SetMany_ThenGet(t *testing.T) {
	store := NewSQLiteKVStore(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, store.SetMany(ctx, map[string]string{
		"auth_token": "tok-1",
		"auth_user":  `{"id":"u1"}`,
	}))

	tok, err := store.Get(ctx, "auth_token")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)

	user, err := store.Get(ctx, "auth_user")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"u1"}`, user)
}

func TestKVStore_SetMany_Overwrites(t *testing.T) {
	store := NewSQLiteKVStore(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, store.SetMany(ctx, map[string]string{"auth_token": "old"}))
	require.NoError(t, store.SetMany(ctx, map[string]string{"auth_token": "new"}))

	tok, err := store.Get(ctx, "auth_token")
	require.NoError(t, err)
	assert.Equal(t, "new", tok)
}

func TestKVStore_Delete_IsIdempotent(t *testing.T) {
	store := NewSQLiteKVStore(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, store.SetMany(ctx, map[string]string{"auth_token": "t", "auth_user": "u", "other": "x"}))

	require.NoError(t, store.Delete(ctx, "auth_token", "auth_user"))
	require.NoError(t, store.Delete(ctx, "auth_token", "auth_user"))

	_, err := store.Get(ctx, "auth_token")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Get(ctx, "auth_user")
	assert.ErrorIs(t, err, ErrNotFound)

	other, err := store.Get(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, "x", other)
}

func TestKVStore_PersistsAcrossReopen(t *testing.T) {
	path := t.TempDir() + "/state.db"
	ctx := context.Background()

	first := testutil.OpenFileDB(t, path)
	require.NoError(t, NewSQLiteKVStore(first).SetMany(ctx, map[string]string{"auth_token": "tok"}))
	require.NoError(t, first.Close())

	second := testutil.OpenFileDB(t, path)
	tok, err := NewSQLiteKVStore(second).Get(ctx, "auth_token")
	require.NoError(t, err)
	assert.Equal(t, "tok", tok)
}
