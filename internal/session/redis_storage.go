package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStorage keeps the two session keys in Redis with a shared TTL.
type RedisStorage struct {
	client *redis.Client
	keys   Keys
	ttl    time.Duration
}

// NewRedisStorage builds the Redis driver.
func NewRedisStorage(client *redis.Client, keys Keys, ttl time.Duration) *RedisStorage {
	return &RedisStorage{client: client, keys: keys, ttl: ttl}
}

func (s *RedisStorage) Load(ctx context.Context, sessionID string) (*Record, error) {
	values, err := s.client.MGet(ctx, s.keys.Token(sessionID), s.keys.User(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	token, _ := values[0].(string)
	if token == "" {
		return nil, ErrNotFound
	}
	rawUser, _ := values[1].(string)
	user, err := decodeUser(rawUser)
	if err != nil {
		return nil, err
	}
	return &Record{Token: token, User: user}, nil
}

func (s *RedisStorage) Save(ctx context.Context, sessionID string, record Record) error {
	rawUser, err := encodeUser(record.User)
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.keys.Token(sessionID), record.Token, s.ttl)
		if rawUser == "" {
			pipe.Del(ctx, s.keys.User(sessionID))
			return nil
		}
		pipe.Set(ctx, s.keys.User(sessionID), rawUser, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *RedisStorage) Clear(ctx context.Context, sessionID string) error {
	err := s.client.Del(ctx, s.keys.Token(sessionID), s.keys.User(sessionID)).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
