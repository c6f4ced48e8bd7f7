package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(now time.Time) *TokenManager {
	m := NewTokenManager("test-secret", time.Hour, 7*24*time.Hour)
	m.now = func() time.Time { return now }
	return m
}

func TestTokenManager_AccessRoundTrip(t *testing.T) {
	m := newTestManager(time.Now())

	token, err := m.IssueAccessToken(42)
	require.NoError(t, err)

	claims, err := m.ParseAccessToken(token)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Empty(t, claims.Scope)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenManager_RefreshRoundTrip(t *testing.T) {
	m := newTestManager(time.Now())

	token, issued, err := m.IssueRefreshToken(7)
	require.NoError(t, err)
	assert.Equal(t, RefreshScope, issued.Scope)

	claims, err := m.ParseRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, issued.ID, claims.ID)
	assert.InDelta(t, (7 * 24 * time.Hour).Seconds(), claims.TTL(m.now()).Seconds(), 1)
}

func TestTokenManager_Rejections(t *testing.T) {
	issuedAt := time.Now()
	m := newTestManager(issuedAt)

	access, err := m.IssueAccessToken(1)
	require.NoError(t, err)
	refresh, _, err := m.IssueRefreshToken(1)
	require.NoError(t, err)

	t.Run("refresh token as access token", func(t *testing.T) {
		_, err := m.ParseAccessToken(refresh)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("access token as refresh token", func(t *testing.T) {
		_, err := m.ParseRefreshToken(access)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		later := newTestManager(issuedAt.Add(2 * time.Hour))
		_, err := later.ParseAccessToken(access)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenManager("another-secret", time.Hour, time.Hour)
		_, err := other.ParseAccessToken(access)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unsigned token", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
		})
		s, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = m.ParseAccessToken(s)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("non numeric subject", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject:   "not-a-number",
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
		})
		s, err := tok.SignedString([]byte("test-secret"))
		require.NoError(t, err)
		_, err = m.ParseAccessToken(s)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.ParseAccessToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", hash)
	assert.True(t, VerifyPassword("s3cret!", hash))
	assert.False(t, VerifyPassword("wrong", hash))

	other, err := HashPassword("s3cret!")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "hashes should be salted")
}
