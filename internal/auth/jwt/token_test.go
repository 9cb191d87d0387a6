package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-secret"))
	require.NoError(t, err)
	return token
}

func TestExpiryReadsExpClaim(t *testing.T) {
	exp := time.Now().Add(3 * time.Hour).Truncate(time.Second)
	token := sign(t, Claims{
		Email:            "a@x.com",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)},
	})

	got, ok := Expiry(token)
	require.True(t, ok)
	assert.True(t, exp.Equal(got))

	claims, err := Inspect(token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Email)
}

func TestExpiryOpaqueToken(t *testing.T) {
	_, ok := Expiry("not-a-jwt")
	assert.False(t, ok)

	_, err := Inspect("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiryWithoutExpClaim(t *testing.T) {
	_, ok := Expiry(sign(t, Claims{Name: "Ann"}))
	assert.False(t, ok)
}

func TestInspectIgnoresPastExpiry(t *testing.T) {
	token := sign(t, Claims{RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}})
	exp, ok := Expiry(token)
	require.True(t, ok)
	assert.True(t, exp.Before(time.Now()))
}
