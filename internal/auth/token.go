package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiresAt reads the expiry claim from a session token without
// verifying the signature. The client holds no signing secret; it only needs
// to know when to force a re-login. The backend remains the authority on
// whether a token is actually accepted.
func TokenExpiresAt(token string) (time.Time, bool) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// TokenExpired reports whether the token carries an expiry in the past.
// Tokens without a readable expiry are treated as unexpired.
func TokenExpired(token string) bool {
	exp, ok := TokenExpiresAt(token)
	if !ok {
		return false
	}
	return time.Now().After(exp)
}
