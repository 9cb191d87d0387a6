// Package jwt inspects access tokens issued by the auth API. The client never
// holds the signing key, so nothing here verifies signatures.
package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims the auth API may put in its tokens. All fields are optional.
type Claims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Inspect decodes the claims of tokenString without verifying it.
func Inspect(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Expiry returns the exp claim of tokenString. ok is false for opaque tokens
// and for JWTs without exp.
func Expiry(tokenString string) (exp time.Time, ok bool) {
	claims, err := Inspect(tokenString)
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
