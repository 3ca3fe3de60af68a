package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/secretbox"
)

const sealedPrefix = "sealed:v1:"

// SealedStorage encrypts bearer tokens with NaCl secretbox before they reach
// the wrapped driver. The user record is stored as is.
type SealedStorage struct {
	inner Storage
	key   [32]byte
}

// NewSealedStorage derives a secretbox key from secret and wraps inner.
func NewSealedStorage(inner Storage, secret string) (*SealedStorage, error) {
	if secret == "" {
		return nil, errors.New("sealed storage requires a secret")
	}
	s := &SealedStorage{inner: inner}
	reader := hkdf.New(sha256.New, []byte(secret), nil, []byte("ferry-admin session token"))
	if _, err := io.ReadFull(reader, s.key[:]); err != nil {
		return nil, fmt.Errorf("derive session key: %w", err)
	}
	return s, nil
}

func (s *SealedStorage) Load(ctx context.Context, sessionID string) (*Record, error) {
	record, err := s.inner.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	token, err := s.open(record.Token)
	if err != nil {
		return nil, err
	}
	record.Token = token
	return record, nil
}

func (s *SealedStorage) Save(ctx context.Context, sessionID string, record Record) error {
	sealed, err := s.seal(record.Token)
	if err != nil {
		return err
	}
	record.Token = sealed
	return s.inner.Save(ctx, sessionID, record)
}

func (s *SealedStorage) Clear(ctx context.Context, sessionID string) error {
	return s.inner.Clear(ctx, sessionID)
}

// PurgeExpired delegates to the wrapped driver when it supports purging.
func (s *SealedStorage) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	purger, ok := s.inner.(Purger)
	if !ok {
		return 0, nil
	}
	return purger.PurgeExpired(ctx, now)
}

func (s *SealedStorage) seal(token string) (string, error) {
	var nonce [24]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("seal token: %w", err)
	}
	box := secretbox.Seal(nonce[:], []byte(token), &nonce, &s.key)
	return sealedPrefix + base64.RawURLEncoding.EncodeToString(box), nil
}

// open accepts plaintext tokens written before sealing was enabled.
func (s *SealedStorage) open(stored string) (string, error) {
	if !strings.HasPrefix(stored, sealedPrefix) {
		return stored, nil
	}
	box, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(stored, sealedPrefix))
	if err != nil || len(box) < 24+secretbox.Overhead {
		return "", ErrCorrupt
	}
	var nonce [24]byte
	copy(nonce[:], box[:24])
	token, ok := secretbox.Open(nil, box[24:], &nonce, &s.key)
	if !ok {
		return "", ErrCorrupt
	}
	return string(token), nil
}
