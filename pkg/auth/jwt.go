package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	pkgerrors "ideaforge-backend/pkg/errors"
)

// Claims carries the identity fields the backend reads from an access token
type Claims struct {
	UserID string `json:"sub"`
	Tier   string `json:"tier,omitempty"`
	jwt.RegisteredClaims
}

// JWTValidator verifies HMAC-signed access tokens issued by the auth frontend
type JWTValidator struct {
	secret []byte
	issuer string
}

// NewJWTValidator creates a validator for the given signing secret and issuer
func NewJWTValidator(secret, issuer string) *JWTValidator {
	return &JWTValidator{
		secret: []byte(secret),
		issuer: issuer,
	}
}

// Validate parses and verifies a token string, returning its claims
func (v *JWTValidator) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithIssuer(v.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, pkgerrors.NewUnauthorizedError("invalid token").WithCause(err)
	}
	if !token.Valid {
		return nil, pkgerrors.NewUnauthorizedError("invalid token")
	}
	if claims.UserID == "" {
		return nil, pkgerrors.NewUnauthorizedError("token has no subject")
	}
	return claims, nil
}
