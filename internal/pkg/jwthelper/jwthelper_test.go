package jwthelper_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kidmood/kidmood-api/internal/domain"
	"github.com/kidmood/kidmood-api/internal/pkg/jwthelper"
)

var signingKey = []byte("test-signing-key")

func TestGenerateAndVerifyToken(t *testing.T) {
	identity := domain.Identity{ID: "user-1", Role: domain.RoleParent, Email: "parent@example.org"}

	token, err := jwthelper.GenerateToken(signingKey, identity)
	require.NoError(t, err)

	parsed, err := jwthelper.VerifyToken(signingKey, token)
	require.NoError(t, err)
	assert.Equal(t, identity, parsed)
}

func TestVerifyToken_WrongKey(t *testing.T) {
	token, err := jwthelper.GenerateToken(signingKey, domain.Identity{ID: "user-1", Role: domain.RoleChild})
	require.NoError(t, err)

	_, err = jwthelper.VerifyToken([]byte("another-key"), token)
	assert.ErrorIs(t, err, jwthelper.ErrInvalidToken)
}

func TestVerifyToken_Malformed(t *testing.T) {
	_, err := jwthelper.VerifyToken(signingKey, "not-a-token")
	assert.ErrorIs(t, err, jwthelper.ErrInvalidToken)
}

func TestVerifyToken_Expired(t *testing.T) {
	claims := jwthelper.Claims{
		Role: domain.RoleChild,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-8 * 24 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-24 * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
	require.NoError(t, err)

	_, err = jwthelper.VerifyToken(signingKey, token)
	assert.ErrorIs(t, err, jwthelper.ErrInvalidToken)
}

func TestVerifyToken_RejectsUnsignedAlgorithm(t *testing.T) {
	claims := jwthelper.Claims{
		Role: domain.RolePro,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = jwthelper.VerifyToken(signingKey, token)
	assert.ErrorIs(t, err, jwthelper.ErrInvalidToken)
}

func TestMissingSigningKeyFailsClosed(t *testing.T) {
	_, err := jwthelper.GenerateToken(nil, domain.Identity{ID: "user-1", Role: domain.RoleChild})
	assert.ErrorIs(t, err, jwthelper.ErrMissingSigningKey)

	token, err := jwthelper.GenerateToken(signingKey, domain.Identity{ID: "user-1", Role: domain.RoleChild})
	require.NoError(t, err)

	_, err = jwthelper.VerifyToken(nil, token)
	assert.ErrorIs(t, err, jwthelper.ErrMissingSigningKey)
}
