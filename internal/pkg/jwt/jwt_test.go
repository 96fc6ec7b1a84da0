package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-testing"

func TestGenerateToken(t *testing.T) {
	t.Run("round trip admin id", func(t *testing.T) {
		for _, id := range []int64{0, 1, 42, 9223372036854775807} {
			token, err := GenerateToken(id, testSecret, 24)
			require.NoError(t, err)
			assert.NotEmpty(t, token)

			claims, err := ParseToken(token, testSecret)
			require.NoError(t, err)
			assert.Equal(t, id, claims.AdminID)
		}
	})

	t.Run("different admins get different tokens", func(t *testing.T) {
		token1, err := GenerateToken(1, testSecret, 24)
		require.NoError(t, err)
		token2, err := GenerateToken(2, testSecret, 24)
		require.NoError(t, err)

		assert.NotEqual(t, token1, token2)
	})

	t.Run("expiry follows expire hours", func(t *testing.T) {
		token, err := GenerateToken(1, testSecret, 168)
		require.NoError(t, err)

		claims, err := ParseToken(token, testSecret)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(168*time.Hour), claims.ExpiresAt.Time, time.Minute)
		assert.Equal(t, "academy_server", claims.Issuer)
	})
}

func TestParseToken(t *testing.T) {
	t.Run("wrong secret", func(t *testing.T) {
		token, _ := GenerateToken(123, testSecret, 24)

		claims, err := ParseToken(token, "wrong-secret")

		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.Nil(t, claims)
	})

	t.Run("garbage input", func(t *testing.T) {
		for _, s := range []string{"", "not-a-jwt-at-all", "invalid.token.string"} {
			claims, err := ParseToken(s, testSecret)
			assert.ErrorIs(t, err, ErrInvalidToken, s)
			assert.Nil(t, claims)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		claims := Claims{
			AdminID: 123,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
				IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			},
		}
		tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		result, err := ParseToken(tokenString, testSecret)

		assert.ErrorIs(t, err, ErrExpiredToken)
		assert.Nil(t, result)
	})

	t.Run("unsigned token rejected", func(t *testing.T) {
		claims := Claims{
			AdminID: 123,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		tokenString, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		result, err := ParseToken(tokenString, testSecret)

		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.Nil(t, result)
	})
}

func TestErrors(t *testing.T) {
	assert.Equal(t, "invalid token", ErrInvalidToken.Error())
	assert.Equal(t, "token has expired", ErrExpiredToken.Error())
}
