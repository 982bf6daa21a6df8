package session

import (
	"context"
	"sync"

	"github.com/alexanderramin/carbonadmin/internal/apiclient"
	"github.com/rs/zerolog"
)

// Reasons passed to Navigator.ToLogin.
const (
	ReasonExpired = "session expired, please log in again"
	ReasonLogout  = "logged out"
)

// Navigator moves the user to the login surface.
type Navigator interface {
	ToLogin(reason string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(reason string)

func (f NavigatorFunc) ToLogin(reason string) { f(reason) }

// ExpiryWatcher is the single handler of the API client's session-expired
// signal. It clears the store and navigates once per rejected token.
type ExpiryWatcher struct {
	store *Store
	log   zerolog.Logger

	mu  sync.RWMutex
	nav Navigator
}

var _ apiclient.ExpiryReporter = (*ExpiryWatcher)(nil)

// NewExpiryWatcher creates a watcher. nav may be set later with SetNavigator
// once the UI exists.
func NewExpiryWatcher(store *Store, nav Navigator, log zerolog.Logger) *ExpiryWatcher {
	return &ExpiryWatcher{store: store, nav: nav, log: log}
}

// SetNavigator replaces the navigator. Requests still in flight may report
// to either the old or the new one.
func (w *ExpiryWatcher) SetNavigator(nav Navigator) {
	w.mu.Lock()
	w.nav = nav
	w.mu.Unlock()
}

func (w *ExpiryWatcher) navigator() Navigator {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.nav
}

// SessionExpired implements apiclient.ExpiryReporter. A 401 for a request
// that carried no token (a failed login) changes nothing.
func (w *ExpiryWatcher) SessionExpired(ctx context.Context, token string) {
	if token == "" {
		return
	}
	// The request context is about to be cancelled; the clear must finish.
	cleared, err := w.store.ClearIfToken(context.WithoutCancel(ctx), token)
	if err != nil {
		w.log.Error().Err(err).Msg("clearing expired session")
	}
	if !cleared {
		return
	}
	w.log.Warn().Msg("session rejected by server, signing out")
	if nav := w.navigator(); nav != nil {
		nav.ToLogin(ReasonExpired)
	}
}
