package session

import (
	"context"
	"errors"
	"time"

	"github.com/spec-kit/ferry-admin/internal/domain"
)

var (
	// ErrNotFound means no token is stored for the session.
	ErrNotFound = errors.New("session not found")
	// ErrCorrupt means stored session data could not be decoded or unsealed.
	ErrCorrupt = errors.New("session data corrupt")
)

// Record is what durable storage keeps for one browser session: the opaque
// bearer token and the last confirmed user. A record may carry a token with
// a nil user when the user key was lost; rehydration re-fetches the user.
type Record struct {
	Token string
	User  *domain.User
}

// Storage persists session records under two keys per session, written and
// cleared together.
type Storage interface {
	Load(ctx context.Context, sessionID string) (*Record, error)
	Save(ctx context.Context, sessionID string, record Record) error
	Clear(ctx context.Context, sessionID string) error
}

// Purger is implemented by drivers whose entries do not expire on their own.
type Purger interface {
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// Keys names the two durable keys of a session.
type Keys struct {
	Prefix string
}

func (k Keys) prefix() string {
	if k.Prefix == "" {
		return "ferry:session"
	}
	return k.Prefix
}

// Token is the key holding the bearer token.
func (k Keys) Token(sessionID string) string {
	return k.prefix() + ":" + sessionID + ":token"
}

// User is the key holding the JSON user record.
func (k Keys) User(sessionID string) string {
	return k.prefix() + ":" + sessionID + ":user"
}
