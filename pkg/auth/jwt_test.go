package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "ideaforge-backend/pkg/errors"
)

const testIssuer = "ideaforge-backend"

func signToken(t *testing.T, secret string, claims jwt.Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestJWTValidatorAcceptsValidToken(t *testing.T) {
	validator := NewJWTValidator("secret", testIssuer)
	token := signToken(t, "secret", Claims{
		UserID: "user-1",
		Tier:   "paid",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := validator.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "paid", claims.Tier)
}

func TestJWTValidatorRejectsBadTokens(t *testing.T) {
	validator := NewJWTValidator("secret", testIssuer)
	base := jwt.RegisteredClaims{
		Issuer:    testIssuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}

	cases := map[string]string{
		"wrong secret": signToken(t, "other-secret", Claims{UserID: "user-1", RegisteredClaims: base}),
		"expired": signToken(t, "secret", Claims{UserID: "user-1", RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		}}),
		"missing expiry": signToken(t, "secret", Claims{UserID: "user-1", RegisteredClaims: jwt.RegisteredClaims{
			Issuer: testIssuer,
		}}),
		"wrong issuer": signToken(t, "secret", Claims{UserID: "user-1", RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}),
		"no subject": signToken(t, "secret", Claims{RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}),
		"garbage": "not.a.token",
	}

	for name, token := range cases {
		_, err := validator.Validate(token)
		assert.True(t, pkgerrors.IsUnauthorized(err), name)
	}
}
