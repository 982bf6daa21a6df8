package session

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/alexanderramin/carbonadmin/internal/apiclient"
	"github.com/alexanderramin/carbonadmin/internal/repository"
	"github.com/alexanderramin/carbonadmin/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpiryWatcher_ConcurrentForbiddenSignsOutOnce(t *testing.T) {
	ctx := context.Background()
	store, kv := newTestStore(t, &stubAuth{sess: adminSession("tok-1")})
	_, err := store.Login(ctx, "ada@example.com", "pw")
	require.NoError(t, err)

	api := testutil.NewFakeAPI(t)
	api.JSON("GET /admin/users", http.StatusForbidden, map[string]string{"message": "expired"})

	var navigations atomic.Int32
	var reasons []string
	var mu sync.Mutex
	watcher := NewExpiryWatcher(store, NavigatorFunc(func(reason string) {
		navigations.Add(1)
		mu.Lock()
		reasons = append(reasons, reason)
		mu.Unlock()
	}), zerolog.Nop())
	client := apiclient.New(apiclient.Config{BaseURL: api.URL}, store, apiclient.WithExpiryReporter(watcher))

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = client.Get(ctx, "/admin/users", nil)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.ErrorIs(t, err, apiclient.ErrSessionExpired)
	}
	assert.Equal(t, int32(1), navigations.Load())
	assert.Equal(t, []string{ReasonExpired}, reasons)
	assert.Empty(t, store.Token())
	_, err = kv.Get(ctx, TokenKey)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestExpiryWatcher_FailedLoginDoesNotNavigate(t *testing.T) {
	store, _ := newTestStore(t, nil)
	var navigations int
	watcher := NewExpiryWatcher(store, NavigatorFunc(func(string) { navigations++ }), zerolog.Nop())

	watcher.SessionExpired(context.Background(), "")

	assert.Zero(t, navigations)
}

func TestExpiryWatcher_StaleTokenIgnored(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t, &stubAuth{sess: adminSession("tok-new")})
	_, err := store.Login(ctx, "ada@example.com", "pw")
	require.NoError(t, err)

	var navigations int
	watcher := NewExpiryWatcher(store, NavigatorFunc(func(string) { navigations++ }), zerolog.Nop())
	watcher.SessionExpired(ctx, "tok-old")

	assert.Zero(t, navigations)
	assert.Equal(t, "tok-new", store.Token())
}

func TestExpiryWatcher_CancelledRequestStillClears(t *testing.T) {
	store, _ := newTestStore(t, &stubAuth{sess: adminSession("tok-1")})
	_, err := store.Login(context.Background(), "ada@example.com", "pw")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	watcher := NewExpiryWatcher(store, nil, zerolog.Nop())
	watcher.SessionExpired(ctx, "tok-1")

	assert.Empty(t, store.Token())
}

func TestExpiryWatcher_SetNavigatorWhileReporting(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t, &stubAuth{sess: adminSession("tok-1")})
	_, err := store.Login(ctx, "ada@example.com", "pw")
	require.NoError(t, err)

	var navigations atomic.Int32
	count := NavigatorFunc(func(string) { navigations.Add(1) })
	watcher := NewExpiryWatcher(store, count, zerolog.Nop())

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for range 50 {
			watcher.SetNavigator(count)
		}
	}()
	go func() {
		defer wg.Done()
		for range 50 {
			watcher.SessionExpired(ctx, "tok-1")
		}
	}()
	wg.Wait()

	assert.Equal(t, int32(1), navigations.Load())
	assert.Empty(t, store.Token())
}
