// Package guard decides whether an admin surface may be entered.
package guard

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/carbonadmin/internal/domain"
	"github.com/rs/zerolog"
)

// ErrLoginRequired is returned by Require when the guard redirects.
var ErrLoginRequired = errors.New("login required")

// Decision is the outcome of a check.
type Decision int

const (
	Allow Decision = iota
	RedirectLogin
)

func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "redirect_login"
}

// Reason explains a RedirectLogin.
type Reason string

const (
	ReasonNone         Reason = ""
	ReasonNoSession    Reason = "no_session"
	ReasonNotAdmin     Reason = "not_admin"
	ReasonTokenExpired Reason = "token_expired"
)

// Result is a decision plus why.
type Result struct {
	Decision Decision
	Reason   Reason
}

// Allowed reports whether the surface may be entered.
func (r Result) Allowed() bool { return r.Decision == Allow }

// Message is a user-facing explanation of a redirect.
func (r Result) Message() string {
	switch r.Reason {
	case ReasonNoSession:
		return "you are not logged in, run `carbonadmin login`"
	case ReasonNotAdmin:
		return "your account does not have admin access"
	case ReasonTokenExpired:
		return "your session has expired, run `carbonadmin login`"
	default:
		return ""
	}
}

// SessionSource is the part of the session store the guard reads and, for
// locally expired tokens, clears.
type SessionSource interface {
	Current() domain.Session
	ClearIfToken(ctx context.Context, token string) (bool, error)
}

// Guard checks the session before an admin surface runs.
type Guard struct {
	sessions SessionSource
	strict   bool
	now      func() time.Time
	log      zerolog.Logger
}

// Option configures a Guard.
type Option func(*Guard)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(g *Guard) { g.now = now }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(g *Guard) { g.log = l }
}

// New creates a Guard. In strict mode a non-admin principal is treated the
// same as no session.
func New(sessions SessionSource, strict bool, opts ...Option) *Guard {
	g := &Guard{sessions: sessions, strict: strict, now: time.Now, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Check evaluates the current session.
func (g *Guard) Check(ctx context.Context) Result {
	sess := g.sessions.Current()
	if sess.IsZero() {
		return Result{Decision: RedirectLogin, Reason: ReasonNoSession}
	}
	if sess.ExpiredAt(g.now()) {
		if _, err := g.sessions.ClearIfToken(ctx, sess.Token); err != nil {
			g.log.Error().Err(err).Msg("clearing expired session")
		}
		return Result{Decision: RedirectLogin, Reason: ReasonTokenExpired}
	}
	if g.strict && !sess.Principal.Role.IsAdmin() {
		return Result{Decision: RedirectLogin, Reason: ReasonNotAdmin}
	}
	return Result{Decision: Allow}
}

// Require returns nil when allowed, else an error wrapping ErrLoginRequired.
func (g *Guard) Require(ctx context.Context) error {
	res := g.Check(ctx)
	if res.Allowed() {
		return nil
	}
	return &RedirectError{Result: res}
}

// RedirectError carries the guard result that refused entry.
type RedirectError struct {
	Result Result
}

func (e *RedirectError) Error() string { return e.Result.Message() }

func (e *RedirectError) Unwrap() error { return ErrLoginRequired }
