// Package jwthelper issues and verifies the signed, role-bearing
// tokens every other component trusts. Verification fails closed: a
// missing secret, malformed token, or expired signature all read as
// unauthenticated, never as a guest identity.
package jwthelper

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kidmood/kidmood-api/internal/domain"
)

// TokenLifetime is the fixed expiry on issued tokens.
const TokenLifetime = 7 * 24 * time.Hour

var (
	ErrMissingSigningKey = errors.New("signing key is not configured")
	ErrInvalidToken      = errors.New("invalid token")
)

type Claims struct {
	Role  string `json:"role"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken signs a token embedding the identity's id, role and
// optional email.
func GenerateToken(signingKey []byte, identity domain.Identity) (string, error) {
	if len(signingKey) == 0 {
		return "", ErrMissingSigningKey
	}

	now := time.Now()
	claims := Claims{
		Role:  identity.Role,
		Email: identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenLifetime)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
	if err != nil {
		return "", fmt.Errorf("token.SignedString -> %w", err)
	}

	return token, nil
}

// VerifyToken parses and validates a signed token, returning the
// embedded identity.
func VerifyToken(signingKey []byte, tokenString string) (domain.Identity, error) {
	if len(signingKey) == 0 {
		return domain.Identity{}, ErrMissingSigningKey
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}

		return signingKey, nil
	})
	if err != nil || !token.Valid {
		return domain.Identity{}, ErrInvalidToken
	}

	return domain.Identity{
		ID:    claims.Subject,
		Role:  claims.Role,
		Email: claims.Email,
	}, nil
}
