package testutil

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AdminUser is the principal returned by fixture logins.
var AdminUser = map[string]any{
	"id":    "u-admin",
	"name":  "Ada Admin",
	"email": "ada@example.com",
	"role":  "admin",
}

// StaffUser is a non-admin principal.
var StaffUser = map[string]any{
	"id":    "u-staff",
	"name":  "Sam Staff",
	"email": "sam@example.com",
	"role":  "staff",
}

// LoginResponse builds the body of a successful POST /auth/login.
func LoginResponse(token string, user map[string]any) map[string]any {
	return map[string]any{"token": token, "data": user}
}

// JWT returns an HS256 token with the given expiry, signed with a throwaway
// key. The console never verifies signatures.
func JWT(exp time.Time) string {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u-admin",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		panic(err)
	}
	return s
}
