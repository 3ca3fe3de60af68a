package session

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	entryKeyToken = "token"
	entryKeyUser  = "user"
)

// PostgresStorage keeps one session_entries row per durable key.
type PostgresStorage struct {
	pool *pgxpool.Pool
	ttl  time.Duration
}

// NewPostgresStorage builds the Postgres driver.
func NewPostgresStorage(pool *pgxpool.Pool, ttl time.Duration) *PostgresStorage {
	return &PostgresStorage{pool: pool, ttl: ttl}
}

func (s *PostgresStorage) Load(ctx context.Context, sessionID string) (*Record, error) {
	const query = `
        SELECT key, value FROM session_entries
        WHERE session_id=$1 AND expires_at > NOW()`

	rows, err := s.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	defer rows.Close()

	var token, rawUser string
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		switch key {
		case entryKeyToken:
			token = value
		case entryKeyUser:
			rawUser = value
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if token == "" {
		return nil, ErrNotFound
	}
	user, err := decodeUser(rawUser)
	if err != nil {
		return nil, err
	}
	return &Record{Token: token, User: user}, nil
}

func (s *PostgresStorage) Save(ctx context.Context, sessionID string, record Record) error {
	rawUser, err := encodeUser(record.User)
	if err != nil {
		return err
	}

	const upsert = `
        INSERT INTO session_entries (session_id, key, value, expires_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (session_id, key)
        DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at, updated_at = NOW()`

	expiresAt := time.Now().Add(s.ttl)
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, upsert, sessionID, entryKeyToken, record.Token, expiresAt); err != nil {
			return fmt.Errorf("save session token: %w", err)
		}
		if rawUser == "" {
			_, err := tx.Exec(ctx, `DELETE FROM session_entries WHERE session_id=$1 AND key=$2`, sessionID, entryKeyUser)
			return err
		}
		if _, err := tx.Exec(ctx, upsert, sessionID, entryKeyUser, rawUser, expiresAt); err != nil {
			return fmt.Errorf("save session user: %w", err)
		}
		return nil
	})
}

func (s *PostgresStorage) Clear(ctx context.Context, sessionID string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM session_entries WHERE session_id=$1`, sessionID); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// PurgeExpired deletes rows past their expiry.
func (s *PostgresStorage) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	cmd, err := s.pool.Exec(ctx, `DELETE FROM session_entries WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	return cmd.RowsAffected(), nil
}
