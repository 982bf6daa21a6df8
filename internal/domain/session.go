package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Principal is the authenticated user's identity as returned by the
// authentication endpoint.
type Principal struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Session pairs a bearer token with the principal it was issued to.
// Token and Principal are set and cleared together.
type Session struct {
	Token     string
	Principal *Principal
}

// IsZero reports whether no one is logged in.
func (s Session) IsZero() bool {
	return s.Token == "" || s.Principal == nil
}

// ExpiresAt reads the exp claim when the token is a JWT. The signature is
// not verified; only the server can do that. Opaque tokens report false.
func (s Session) ExpiresAt() (time.Time, bool) {
	if s.Token == "" {
		return time.Time{}, false
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// ExpiredAt reports whether the token carries an exp claim at or before now.
func (s Session) ExpiredAt(now time.Time) bool {
	exp, ok := s.ExpiresAt()
	return ok && !now.Before(exp)
}
