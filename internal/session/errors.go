package session

import (
	"errors"
	"fmt"
)

// ErrNoSession is returned when an operation needs a logged-in principal.
var ErrNoSession = errors.New("not logged in")

// ErrorKind classifies a failed login.
type ErrorKind string

const (
	// KindAuthFailed covers bad credentials, server errors and transport
	// failures.
	KindAuthFailed ErrorKind = "auth_failed"
	// KindForbidden means the credentials were valid but the principal may
	// not use the console.
	KindForbidden ErrorKind = "forbidden"
)

const (
	genericAuthFailure = "login failed, check your email and password"
	forbiddenMessage   = "this account does not have admin access"
)

// AuthError is returned by Store.Login.
type AuthError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AuthError) Unwrap() error { return e.Err }

// IsForbidden reports whether err is a KindForbidden AuthError.
func IsForbidden(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae) && ae.Kind == KindForbidden
}
