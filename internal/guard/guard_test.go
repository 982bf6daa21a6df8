package guard

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/carbonadmin/internal/domain"
	"github.com/alexanderramin/carbonadmin/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessions struct {
	sess    domain.Session
	cleared []string
}

func (f *fakeSessions) Current() domain.Session { return f.sess }

func (f *fakeSessions) ClearIfToken(_ context.Context, token string) (bool, error) {
	if f.sess.Token != token {
		return false, nil
	}
	f.cleared = append(f.cleared, token)
	f.sess = domain.Session{}
	return true, nil
}

func sessionWith(token string, role domain.Role) domain.Session {
	return domain.Session{Token: token, Principal: &domain.Principal{ID: "u1", Role: role}}
}

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func TestGuard_Check(t *testing.T) {
	tests := []struct {
		name   string
		sess   domain.Session
		strict bool
		want   Result
	}{
		{"no session", domain.Session{}, true, Result{RedirectLogin, ReasonNoSession}},
		{"token without principal", domain.Session{Token: "tok"}, true, Result{RedirectLogin, ReasonNoSession}},
		{"admin strict", sessionWith("opaque", domain.RoleAdmin), true, Result{Decision: Allow}},
		{"staff strict", sessionWith("opaque", domain.RoleStaff), true, Result{RedirectLogin, ReasonNotAdmin}},
		{"staff lenient", sessionWith("opaque", domain.RoleStaff), false, Result{Decision: Allow}},
		{"live jwt", sessionWith(testutil.JWT(fixedNow.Add(time.Hour)), domain.RoleAdmin), true, Result{Decision: Allow}},
		{"expired jwt", sessionWith(testutil.JWT(fixedNow.Add(-time.Minute)), domain.RoleAdmin), true, Result{RedirectLogin, ReasonTokenExpired}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(&fakeSessions{sess: tt.sess}, tt.strict, WithClock(clock))
			assert.Equal(t, tt.want, g.Check(context.Background()))
		})
	}
}

func TestGuard_ExpiredTokenClearsSession(t *testing.T) {
	token := testutil.JWT(fixedNow.Add(-time.Minute))
	sessions := &fakeSessions{sess: sessionWith(token, domain.RoleAdmin)}
	g := New(sessions, true, WithClock(clock))

	g.Check(context.Background())

	assert.Equal(t, []string{token}, sessions.cleared)
	assert.True(t, sessions.sess.IsZero())
}

func TestGuard_NotAdminDoesNotClear(t *testing.T) {
	sessions := &fakeSessions{sess: sessionWith("opaque", domain.RoleStaff)}
	g := New(sessions, true, WithClock(clock))

	g.Check(context.Background())

	assert.Empty(t, sessions.cleared)
}

func TestGuard_ReEvaluatesEveryCall(t *testing.T) {
	sessions := &fakeSessions{sess: sessionWith("opaque", domain.RoleAdmin)}
	g := New(sessions, true, WithClock(clock))
	require.True(t, g.Check(context.Background()).Allowed())

	sessions.sess = domain.Session{}

	assert.False(t, g.Check(context.Background()).Allowed())
}

func TestGuard_Require(t *testing.T) {
	g := New(&fakeSessions{}, true)

	err := g.Require(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLoginRequired)
	assert.Contains(t, err.Error(), "not logged in")

	var re *RedirectError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ReasonNoSession, re.Result.Reason)

	ok := New(&fakeSessions{sess: sessionWith("opaque", domain.RoleAdmin)}, true)
	assert.NoError(t, ok.Require(context.Background()))
}
