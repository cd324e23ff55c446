package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withJWTSettings(t *testing.T, secret, issuer string) {
	t.Helper()
	prevSecret, prevIssuer := jwtSecret, jwtIssuer
	SetJWTSecret(secret)
	SetJWTIssuer(issuer)
	t.Cleanup(func() {
		jwtSecret, jwtIssuer = prevSecret, prevIssuer
	})
}

func TestGenerateAndValidateJWT(t *testing.T) {
	withJWTSettings(t, "unit-secret", "unit-issuer")

	token, err := GenerateJWT("farmer-a", RoleAdmin, 1)
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "farmer-a", claims.Identity())
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Equal(t, "unit-issuer", claims.Issuer)
}

func TestValidateJWTRejectsForeignTokens(t *testing.T) {
	withJWTSettings(t, "unit-secret", "unit-issuer")

	token, err := GenerateJWT("farmer-a", "", 1)
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		SetJWTSecret("other-secret")
		defer SetJWTSecret("unit-secret")

		_, err := ValidateJWT(token)
		assert.Error(t, err)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		SetJWTIssuer("other-issuer")
		defer SetJWTIssuer("unit-issuer")

		_, err := ValidateJWT(token)
		assert.Error(t, err)
	})

	t.Run("missing subject", func(t *testing.T) {
		anonymous, err := GenerateJWT("", "", 1)
		require.NoError(t, err)

		_, err = ValidateJWT(anonymous)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ValidateJWT("not-a-token")
		assert.Error(t, err)
	})
}

func TestValidateJWTReportsExpiry(t *testing.T) {
	withJWTSettings(t, "unit-secret", "unit-issuer")

	claims := IdentityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			Issuer:    "unit-issuer",
			Subject:   "farmer-a",
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("unit-secret"))
	require.NoError(t, err)

	_, err = ValidateJWT(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}
