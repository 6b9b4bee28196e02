package vaultsdk

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims are the claims carried by a vault server access token.
type AuthClaims struct {
	Type string `json:"type"`
	jwt.RegisteredClaims
}

// ParseToken decodes an access token and checks its expiry. The signature is
// not verified here; only the server holds the signing key. The client parses
// the token solely to fail fast before a doomed request.
func ParseToken(tokenStr string) (*AuthClaims, error) {
	var claims AuthClaims
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, &claims); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	if claims.ExpiresAt != nil && time.Now().After(claims.ExpiresAt.Time) {
		return nil, ErrTokenExpired
	}

	return &claims, nil
}
