package helpers

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWT() *JWTManager {
	return NewJWTManager("access-secret-123", "refresh-secret-123", 15*time.Minute, 7*24*time.Hour)
}

func TestJWTManager_AccessRoundTrip(t *testing.T) {
	m := newTestJWT()

	tok, exp, err := m.GenerateAccessToken("u1", "a@b.com")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), exp, 2*time.Second)

	claims, err := m.ParseAccessToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.NotEmpty(t, claims.ID)
	assert.NotNil(t, claims.IssuedAt)
}

func TestJWTManager_AccessExpires(t *testing.T) {
	start := time.Now()
	m := newTestJWT().WithClock(func() time.Time { return start })

	tok, _, err := m.GenerateAccessToken("u1", "a@b.com")
	require.NoError(t, err)

	_, err = m.ParseAccessToken(tok)
	require.NoError(t, err)

	later := m.WithClock(func() time.Time { return start.Add(16 * time.Minute) })
	_, err = later.ParseAccessToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_SecretsAreNotInterchangeable(t *testing.T) {
	m := newTestJWT()

	access, _, err := m.GenerateAccessToken("u1", "a@b.com")
	require.NoError(t, err)
	refresh, _, err := m.GenerateRefreshToken("u1", "a@b.com")
	require.NoError(t, err)

	_, err = m.ParseRefreshToken(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = m.ParseAccessToken(refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)

	claims, err := m.ParseRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
}

func TestJWTManager_TokensAreUnique(t *testing.T) {
	m := newTestJWT()
	a, _, err := m.GenerateRefreshToken("u1", "a@b.com")
	require.NoError(t, err)
	b, _, err := m.GenerateRefreshToken("u1", "a@b.com")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestJWTManager_RejectsForgedTokens(t *testing.T) {
	m := newTestJWT()
	valid, _, err := m.GenerateAccessToken("u1", "a@b.com")
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		UserID:           "u1",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	noneStr, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	other := NewJWTManager("another-secret-1", "another-secret-2", time.Minute, time.Hour)
	foreign, _, err := other.GenerateAccessToken("u1", "a@b.com")
	require.NoError(t, err)

	parts := strings.Split(valid, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	for name, tok := range map[string]string{
		"empty":     "",
		"garbage":   "not.a.jwt",
		"tampered":  tampered,
		"alg none":  noneStr,
		"foreign":   foreign,
		"truncated": valid[:len(valid)/2],
	} {
		t.Run(name, func(t *testing.T) {
			_, err := m.ParseAccessToken(tok)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
