package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpired reports whether raw is a JWT whose exp claim has passed.
// Opaque tokens and tokens without an exp claim return false; the server
// remains the authority on their validity. The signature is deliberately
// not checked here; this only avoids a doomed round trip.
func TokenExpired(raw string, now time.Time) bool {
	var claims jwt.RegisteredClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Time.Before(now)
}
