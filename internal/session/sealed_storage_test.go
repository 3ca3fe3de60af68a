package session

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestSealedStorageRoundTrip(t *testing.T) {
	inner := NewMemoryStorage(testKeys, time.Hour)
	sealed, err := NewSealedStorage(inner, "unit-test-secret")
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, sealed.Save(ctx, sid, Record{Token: "1|plain", User: admin()}))

	raw, ok := inner.Raw(testKeys.Token(sid))
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(raw, sealedPrefix))
	assert.NotContains(t, raw, "1|plain")

	record, err := sealed.Load(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, "1|plain", record.Token)
	assert.Equal(t, "Ops Admin", record.User.Name)
}

func TestSealedStorageReadsLegacyPlaintext(t *testing.T) {
	inner := NewMemoryStorage(testKeys, time.Hour)
	require.NoError(t, inner.Save(context.Background(), sid, Record{Token: "legacy"}))
	sealed, err := NewSealedStorage(inner, "unit-test-secret")
	require.NoError(t, err)

	record, err := sealed.Load(context.Background(), sid)
	require.NoError(t, err)
	assert.Equal(t, "legacy", record.Token)
}

func TestSealedStorageRejectsForeignKey(t *testing.T) {
	inner := NewMemoryStorage(testKeys, time.Hour)
	writer, err := NewSealedStorage(inner, "first-secret")
	require.NoError(t, err)
	reader, err := NewSealedStorage(inner, "rotated-secret")
	require.NoError(t, err)

	require.NoError(t, writer.Save(context.Background(), sid, Record{Token: "1|tok"}))
	_, err = reader.Load(context.Background(), sid)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestSealedStorageRequiresSecret(t *testing.T) {
	_, err := NewSealedStorage(NewMemoryStorage(testKeys, 0), "")
	assert.Error(t, err)
}

func TestCorruptStoredSessionIsCleared(t *testing.T) {
	inner := NewMemoryStorage(testKeys, time.Hour)
	inner.entries[testKeys.Token(sid)] = memoryEntry{value: sealedPrefix + "not-base64!"}
	inner.entries[testKeys.User(sid)] = memoryEntry{value: `{"id":1}`}
	sealed, err := NewSealedStorage(inner, "unit-test-secret")
	require.NoError(t, err)

	store := NewStore(sid, StoreDeps{Storage: sealed, Auth: &MockAuthRepository{}, Logger: zaptest.NewLogger(t)})
	store.Init(context.Background())

	assert.Equal(t, StatusUnauthenticated, store.Snapshot().Status)
	assert.False(t, inner.Has(testKeys.Token(sid)))
	assert.False(t, inner.Has(testKeys.User(sid)))
}

func TestMemoryStoragePurgeExpired(t *testing.T) {
	storage := NewMemoryStorage(testKeys, time.Minute)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	storage.now = func() time.Time { return now }
	require.NoError(t, storage.Save(context.Background(), sid, Record{Token: "1|tok", User: admin()}))

	purged, err := storage.PurgeExpired(context.Background(), now.Add(30*time.Second))
	require.NoError(t, err)
	assert.Zero(t, purged)

	purged, err = storage.PurgeExpired(context.Background(), now.Add(2*time.Minute))
	require.NoError(t, err)
	assert.EqualValues(t, 2, purged)
}
