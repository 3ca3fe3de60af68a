package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCookieTokensRoundTrip(t *testing.T) {
	tokens := NewCookieTokens("cookie-secret", time.Hour)
	raw, expiresAt, err := tokens.Issue("sid-123")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	sid, err := tokens.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "sid-123", sid)
}

func TestCookieTokensRejectForeignSignature(t *testing.T) {
	raw, _, err := NewCookieTokens("other-secret", time.Hour).Issue("sid-123")
	require.NoError(t, err)

	_, err = NewCookieTokens("cookie-secret", time.Hour).Parse(raw)
	assert.Error(t, err)
}

func TestCookieTokensRejectExpired(t *testing.T) {
	tokens := NewCookieTokens("cookie-secret", time.Hour)
	tokens.ttl = -time.Minute
	raw, _, err := tokens.Issue("sid-123")
	require.NoError(t, err)

	_, err = tokens.Parse(raw)
	assert.Error(t, err)
}

func TestCookieTokensRejectForeignIssuer(t *testing.T) {
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    "someone-else",
		Subject:   "sid-123",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("cookie-secret"))
	require.NoError(t, err)

	_, err = NewCookieTokens("cookie-secret", time.Hour).Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidCookie)
}

func TestCookieTokensRequireExpiry(t *testing.T) {
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:  cookieIssuer,
		Subject: "sid-123",
	}).SignedString([]byte("cookie-secret"))
	require.NoError(t, err)

	_, err = NewCookieTokens("cookie-secret", time.Hour).Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidCookie)
}
