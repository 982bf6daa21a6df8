// Package session owns the console's authentication state: the bearer token
// and the principal it was issued to, mirrored to durable client storage.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/alexanderramin/carbonadmin/internal/apiclient"
	"github.com/alexanderramin/carbonadmin/internal/domain"
	"github.com/alexanderramin/carbonadmin/internal/repository"
	"github.com/rs/zerolog"
)

// Storage keys shared with every other client of the platform API.
const (
	TokenKey = "auth_token"
	UserKey  = "auth_user"
)

// Authenticator exchanges credentials for a session.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (domain.Session, error)
}

// Authorizer decides whether a principal may hold a console session.
type Authorizer func(p domain.Principal) bool

// AdminOnly admits principals with the admin role.
func AdminOnly(p domain.Principal) bool { return p.Role.IsAdmin() }

// AnyRole admits every authenticated principal.
func AnyRole(domain.Principal) bool { return true }

// Store holds the current session. It is safe for concurrent use; the API
// client reads Token from request goroutines while the UI logs in and out.
type Store struct {
	mu        sync.RWMutex
	current   domain.Session
	kv        repository.KVStore
	auth      Authenticator
	authorize Authorizer
	log       zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithAuthorizer replaces the AdminOnly default.
func WithAuthorizer(a Authorizer) Option {
	return func(s *Store) {
		if a != nil {
			s.authorize = a
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// NewStore creates an empty Store. auth may be set later with
// SetAuthenticator when the authenticator itself needs the store.
func NewStore(kv repository.KVStore, auth Authenticator, opts ...Option) *Store {
	s := &Store{
		kv:        kv,
		auth:      auth,
		authorize: AdminOnly,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetAuthenticator sets the authenticator used by Login.
func (s *Store) SetAuthenticator(auth Authenticator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auth = auth
}

// Restore loads the persisted session. Missing or malformed state yields an
// empty session and any leftover keys are removed. It never calls the API.
func (s *Store) Restore(ctx context.Context) (domain.Session, error) {
	sess, err := s.load(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("discarding stored session")
		if derr := s.kv.Delete(ctx, TokenKey, UserKey); derr != nil {
			return domain.Session{}, fmt.Errorf("clearing stored session: %w", derr)
		}
		sess = domain.Session{}
	}

	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()

	if !sess.IsZero() {
		s.log.Debug().Str("user", sess.Principal.Email).Msg("session restored")
	}
	return sess, nil
}

func (s *Store) load(ctx context.Context) (domain.Session, error) {
	token, terr := s.kv.Get(ctx, TokenKey)
	raw, uerr := s.kv.Get(ctx, UserKey)
	if errors.Is(terr, repository.ErrNotFound) && errors.Is(uerr, repository.ErrNotFound) {
		return domain.Session{}, nil
	}
	if terr != nil {
		return domain.Session{}, terr
	}
	if uerr != nil {
		return domain.Session{}, uerr
	}
	if strings.TrimSpace(token) == "" {
		return domain.Session{}, errors.New("stored token is empty")
	}

	var p domain.Principal
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return domain.Session{}, fmt.Errorf("decoding stored user: %w", err)
	}
	if p.ID == "" && p.Email == "" {
		return domain.Session{}, errors.New("stored user has no identity")
	}
	return domain.Session{Token: token, Principal: &p}, nil
}

// Login authenticates and, when the principal is authorized, persists and
// installs the new session. A rejected login leaves the previous state
// untouched.
func (s *Store) Login(ctx context.Context, email, password string) (domain.Session, error) {
	s.mu.RLock()
	auth := s.auth
	s.mu.RUnlock()
	if auth == nil {
		return domain.Session{}, &AuthError{Kind: KindAuthFailed, Message: "no authenticator configured"}
	}

	sess, err := auth.Authenticate(ctx, email, password)
	if err != nil {
		msg := apiclient.MessageOf(err)
		if msg == "" {
			msg = genericAuthFailure
		}
		s.log.Info().Str("email", email).Str("kind", string(apiclient.KindOf(err))).Msg("login failed")
		return domain.Session{}, &AuthError{Kind: KindAuthFailed, Message: msg, Err: err}
	}
	if sess.IsZero() {
		return domain.Session{}, &AuthError{Kind: KindAuthFailed, Message: genericAuthFailure}
	}
	if !s.authorize(*sess.Principal) {
		s.log.Info().Str("email", email).Str("role", string(sess.Principal.Role)).Msg("login refused for role")
		return domain.Session{}, &AuthError{Kind: KindForbidden, Message: forbiddenMessage}
	}

	raw, err := json.Marshal(sess.Principal)
	if err != nil {
		return domain.Session{}, fmt.Errorf("encoding principal: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.SetMany(ctx, map[string]string{TokenKey: sess.Token, UserKey: string(raw)}); err != nil {
		return domain.Session{}, fmt.Errorf("persisting session: %w", err)
	}
	s.current = sess
	s.log.Debug().Str("user", sess.Principal.Email).Msg("logged in")
	return sess, nil
}

// Logout clears the session. Logging out twice is the same as once.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearLocked(ctx)
}

// ClearIfToken clears the session only if it still carries token. It
// returns true for the single caller that performed the clear, so a burst
// of rejected requests produces one sign-out.
func (s *Store) ClearIfToken(ctx context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token == "" || s.current.Token != token {
		return false, nil
	}
	// Memory is cleared even if storage fails, so the caller still owns
	// the sign-out.
	return true, s.clearLocked(ctx)
}

func (s *Store) clearLocked(ctx context.Context) error {
	s.current = domain.Session{}
	if err := s.kv.Delete(ctx, TokenKey, UserKey); err != nil {
		return fmt.Errorf("clearing stored session: %w", err)
	}
	return nil
}

// Current returns a copy of the session.
func (s *Store) Current() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.current
	if out.Principal != nil {
		p := *out.Principal
		out.Principal = &p
	}
	return out
}

// Token returns the bearer token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Token
}

// Principal returns the logged-in principal or ErrNoSession.
func (s *Store) Principal() (domain.Principal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current.IsZero() {
		return domain.Principal{}, ErrNoSession
	}
	return *s.current.Principal, nil
}
