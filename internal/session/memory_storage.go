package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryStorage keeps sessions in process. It is the development driver
// and the fake used by tests.
type MemoryStorage struct {
	mu      sync.Mutex
	keys    Keys
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

// NewMemoryStorage builds the in-process driver. ttl <= 0 disables expiry.
func NewMemoryStorage(keys Keys, ttl time.Duration) *MemoryStorage {
	return &MemoryStorage{
		keys:    keys,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

func (s *MemoryStorage) Load(_ context.Context, sessionID string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok := s.get(s.keys.Token(sessionID))
	if !ok {
		return nil, ErrNotFound
	}
	rawUser, _ := s.get(s.keys.User(sessionID))
	user, err := decodeUser(rawUser)
	if err != nil {
		return nil, err
	}
	return &Record{Token: token, User: user}, nil
}

func (s *MemoryStorage) Save(_ context.Context, sessionID string, record Record) error {
	rawUser, err := encodeUser(record.User)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var expiresAt time.Time
	if s.ttl > 0 {
		expiresAt = s.now().Add(s.ttl)
	}
	s.entries[s.keys.Token(sessionID)] = memoryEntry{value: record.Token, expiresAt: expiresAt}
	s.entries[s.keys.User(sessionID)] = memoryEntry{value: rawUser, expiresAt: expiresAt}
	return nil
}

func (s *MemoryStorage) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, s.keys.Token(sessionID))
	delete(s.entries, s.keys.User(sessionID))
	return nil
}

// PurgeExpired drops expired entries.
func (s *MemoryStorage) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var purged int64
	for key, entry := range s.entries {
		if !entry.expiresAt.IsZero() && !now.Before(entry.expiresAt) {
			delete(s.entries, key)
			purged++
		}
	}
	return purged, nil
}

// Has reports whether key is currently stored. Tests use it to assert on the
// raw durable keys.
func (s *MemoryStorage) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.get(key)
	return ok
}

// Raw returns the stored value of key.
func (s *MemoryStorage) Raw(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(key)
}

func (s *MemoryStorage) get(key string) (string, bool) {
	entry, ok := s.entries[key]
	if !ok {
		return "", false
	}
	if !entry.expiresAt.IsZero() && !s.now().Before(entry.expiresAt) {
		delete(s.entries, key)
		return "", false
	}
	return entry.value, true
}
