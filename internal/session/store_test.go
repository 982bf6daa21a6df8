package session

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/alexanderramin/carbonadmin/internal/apiclient"
	"github.com/alexanderramin/carbonadmin/internal/domain"
	"github.com/alexanderramin/carbonadmin/internal/repository"
	"github.com/alexanderramin/carbonadmin/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuth struct {
	sess  domain.Session
	err   error
	calls int
}

func (a *stubAuth) Authenticate(_ context.Context, _, _ string) (domain.Session, error) {
	a.calls++
	return a.sess, a.err
}

func adminSession(token string) domain.Session {
	return domain.Session{
		Token:     token,
		Principal: &domain.Principal{ID: "u1", Name: "Ada", Email: "ada@example.com", Role: domain.RoleAdmin},
	}
}

func newTestStore(t *testing.T, auth Authenticator, opts ...Option) (*Store, *repository.SQLiteKVStore) {
	t.Helper()
	kv := repository.NewSQLiteKVStore(testutil.NewTestDB(t))
	return NewStore(kv, auth, opts...), kv
}

func TestStore_LoginThenRestoreAcrossRestart(t *testing.T) {
	ctx := context.Background()
	path := testutil.TempDBPath(t)

	first := NewStore(repository.NewSQLiteKVStore(testutil.OpenFileDB(t, path)), &stubAuth{sess: adminSession("tok-1")})
	_, err := first.Login(ctx, "ada@example.com", "pw")
	require.NoError(t, err)

	second := NewStore(repository.NewSQLiteKVStore(testutil.OpenFileDB(t, path)), nil)
	restored, err := second.Restore(ctx)
	require.NoError(t, err)

	assert.Equal(t, "tok-1", restored.Token)
	require.NotNil(t, restored.Principal)
	assert.Equal(t, domain.Principal{ID: "u1", Name: "Ada", Email: "ada@example.com", Role: domain.RoleAdmin}, *restored.Principal)
	assert.Equal(t, "tok-1", second.Token())
}

func TestStore_Restore_Empty(t *testing.T) {
	store, _ := newTestStore(t, nil)

	sess, err := store.Restore(context.Background())
	require.NoError(t, err)
	assert.True(t, sess.IsZero())
	assert.Empty(t, store.Token())
}

func TestStore_Restore_MalformedStateIsDiscarded(t *testing.T) {
	cases := map[string]map[string]string{
		"bad user json": {TokenKey: "tok", UserKey: "{not json"},
		"token only":    {TokenKey: "tok"},
		"user only":     {UserKey: `{"id":"u1","role":"admin"}`},
		"empty token":   {TokenKey: "  ", UserKey: `{"id":"u1","role":"admin"}`},
		"no identity":   {TokenKey: "tok", UserKey: `{}`},
	}

	for name, stored := range cases {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store, kv := newTestStore(t, nil)
			require.NoError(t, kv.SetMany(ctx, stored))

			sess, err := store.Restore(ctx)
			require.NoError(t, err)
			assert.True(t, sess.IsZero())

			_, err = kv.Get(ctx, TokenKey)
			assert.ErrorIs(t, err, repository.ErrNotFound)
			_, err = kv.Get(ctx, UserKey)
			assert.ErrorIs(t, err, repository.ErrNotFound)
		})
	}
}

func TestStore_LogoutIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store, kv := newTestStore(t, &stubAuth{sess: adminSession("tok-1")})
	_, err := store.Login(ctx, "ada@example.com", "pw")
	require.NoError(t, err)

	require.NoError(t, store.Logout(ctx))
	require.NoError(t, store.Logout(ctx))

	assert.True(t, store.Current().IsZero())
	_, err = kv.Get(ctx, TokenKey)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = store.Principal()
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestStore_Login_ForbiddenRolePersistsNothing(t *testing.T) {
	ctx := context.Background()
	sess := adminSession("tok-staff")
	sess.Principal.Role = domain.RoleStaff
	store, kv := newTestStore(t, &stubAuth{sess: sess})

	_, err := store.Login(ctx, "sam@example.com", "pw")
	require.Error(t, err)

	var ae *AuthError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, KindForbidden, ae.Kind)
	assert.True(t, IsForbidden(err))
	assert.Empty(t, store.Token())
	_, err = kv.Get(ctx, TokenKey)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStore_Login_AnyRoleAuthorizer(t *testing.T) {
	sess := adminSession("tok-staff")
	sess.Principal.Role = domain.RoleStaff
	store, _ := newTestStore(t, &stubAuth{sess: sess}, WithAuthorizer(AnyRole))

	_, err := store.Login(context.Background(), "sam@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok-staff", store.Token())
}

func TestStore_Login_FailureCarriesServerMessage(t *testing.T) {
	srvErr := &apiclient.Error{Kind: apiclient.KindHTTP, Status: http.StatusUnauthorized, Message: "Invalid credentials"}
	store, _ := newTestStore(t, &stubAuth{err: srvErr})

	_, err := store.Login(context.Background(), "ada@example.com", "wrong")

	var ae *AuthError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, KindAuthFailed, ae.Kind)
	assert.Equal(t, "Invalid credentials", ae.Message)
	assert.ErrorIs(t, err, apiclient.ErrSessionExpired)
}

func TestStore_Login_FailureWithoutMessageIsGeneric(t *testing.T) {
	store, _ := newTestStore(t, &stubAuth{err: errors.New("connection refused")})

	_, err := store.Login(context.Background(), "ada@example.com", "pw")

	var ae *AuthError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, KindAuthFailed, ae.Kind)
	assert.Equal(t, genericAuthFailure, ae.Message)
}

func TestStore_Login_EmptyTokenIsFailure(t *testing.T) {
	store, _ := newTestStore(t, &stubAuth{sess: domain.Session{Principal: &domain.Principal{ID: "u1", Role: domain.RoleAdmin}}})

	_, err := store.Login(context.Background(), "ada@example.com", "pw")

	var ae *AuthError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, KindAuthFailed, ae.Kind)
}

func TestStore_FailedLoginKeepsPreviousSession(t *testing.T) {
	ctx := context.Background()
	auth := &stubAuth{sess: adminSession("tok-1")}
	store, _ := newTestStore(t, auth)
	_, err := store.Login(ctx, "ada@example.com", "pw")
	require.NoError(t, err)

	auth.sess, auth.err = domain.Session{}, errors.New("boom")
	_, err = store.Login(ctx, "ada@example.com", "pw")
	require.Error(t, err)

	assert.Equal(t, "tok-1", store.Token())
}

func TestStore_ClearIfToken(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t, &stubAuth{sess: adminSession("tok-2")})
	_, err := store.Login(ctx, "ada@example.com", "pw")
	require.NoError(t, err)

	cleared, err := store.ClearIfToken(ctx, "tok-1")
	require.NoError(t, err)
	assert.False(t, cleared, "stale token must not clear a newer session")
	assert.Equal(t, "tok-2", store.Token())

	cleared, err = store.ClearIfToken(ctx, "tok-2")
	require.NoError(t, err)
	assert.True(t, cleared)

	cleared, err = store.ClearIfToken(ctx, "tok-2")
	require.NoError(t, err)
	assert.False(t, cleared)
}

func TestStore_CurrentIsACopy(t *testing.T) {
	store, _ := newTestStore(t, &stubAuth{sess: adminSession("tok-1")})
	_, err := store.Login(context.Background(), "ada@example.com", "pw")
	require.NoError(t, err)

	snap := store.Current()
	snap.Principal.Role = domain.RoleUser

	p, err := store.Principal()
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, p.Role)
}
