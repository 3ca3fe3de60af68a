//go:build integration

package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStorage(t *testing.T, storage Storage) {
	t.Helper()
	ctx := context.Background()
	id := "it-" + time.Now().Format("150405.000000")

	_, err := storage.Load(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, storage.Save(ctx, id, Record{Token: "1|tok", User: admin()}))
	record, err := storage.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "1|tok", record.Token)
	assert.Equal(t, "Ops Admin", record.User.Name)

	require.NoError(t, storage.Save(ctx, id, Record{Token: "2|tok"}))
	record, err = storage.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "2|tok", record.Token)
	assert.Nil(t, record.User)

	require.NoError(t, storage.Clear(ctx, id))
	_, err = storage.Load(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStorage(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	exerciseStorage(t, NewRedisStorage(client, Keys{Prefix: "it:session"}, time.Minute))
}

func TestPostgresStorage(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	schema, err := os.ReadFile("../../migrations/001_session_entries.sql")
	require.NoError(t, err)
	_, err = pool.Exec(ctx, string(schema))
	require.NoError(t, err)

	storage := NewPostgresStorage(pool, time.Minute)
	exerciseStorage(t, storage)

	_, err = storage.PurgeExpired(ctx, time.Now())
	require.NoError(t, err)
}
