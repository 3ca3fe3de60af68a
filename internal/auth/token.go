package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// cookieIssuer scopes cookie values to this service.
const cookieIssuer = "ferry-admin"

// ErrInvalidCookie is returned for cookie values that do not name a session.
var ErrInvalidCookie = errors.New("invalid session cookie")

// CookieTokens signs and validates the browser session cookie. The cookie
// carries only the session id; the bearer token never leaves the server.
type CookieTokens struct {
	secret []byte
	ttl    time.Duration
	parser *jwt.Parser
}

// NewCookieTokens builds a signer. A non-positive ttl defaults to one day.
func NewCookieTokens(secret string, ttl time.Duration) *CookieTokens {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CookieTokens{
		secret: []byte(secret),
		ttl:    ttl,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(cookieIssuer),
			jwt.WithExpirationRequired(),
		),
	}
}

// Issue signs a cookie value for sessionID and reports when it expires.
func (t *CookieTokens) Issue(sessionID string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(t.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    cookieIssuer,
		Subject:   sessionID,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(now),
	})
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Parse validates a cookie value and returns its session id.
func (t *CookieTokens) Parse(raw string) (string, error) {
	var claims jwt.RegisteredClaims
	if _, err := t.parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	}); err != nil {
		return "", errors.Join(ErrInvalidCookie, err)
	}
	if claims.Subject == "" {
		return "", ErrInvalidCookie
	}
	return claims.Subject, nil
}
