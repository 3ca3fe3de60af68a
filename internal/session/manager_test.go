package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/spec-kit/ferry-admin/internal/repository"
)

func newTestManager(t *testing.T, auth *MockAuthRepository) (*Manager, *MemoryStorage) {
	t.Helper()
	storage := NewMemoryStorage(testKeys, time.Hour)
	return NewManager(ManagerDeps{
		Storage:     storage,
		Auth:        auth,
		Logger:      zaptest.NewLogger(t),
		InitTimeout: time.Second,
	}), storage
}

func TestResolveRehydratesInBackground(t *testing.T) {
	auth := &MockAuthRepository{}
	auth.On("Me", mock.Anything, "1|tok").Return(admin(), nil).Once()

	manager, storage := newTestManager(t, auth)
	require.NoError(t, storage.Save(context.Background(), "browser-a", Record{Token: "1|tok", User: admin()}))

	svc := manager.Resolve("browser-a")
	assertReleased(t, svc)
	assert.Equal(t, StatusAuthenticated, svc.Snapshot().Status)

	again := manager.Resolve("browser-a")
	assert.Same(t, svc, again)
	assert.Equal(t, 1, manager.Active())
	auth.AssertExpectations(t)
}

func TestResolveUnknownBrowserEndsSignedOut(t *testing.T) {
	manager, _ := newTestManager(t, &MockAuthRepository{})

	svc := manager.Resolve("never-seen")
	assertReleased(t, svc)
	assert.Equal(t, StatusUnauthenticated, svc.Snapshot().Status)
	assert.Equal(t, 0, manager.Active())
}

func TestCreateIsResolvedImmediately(t *testing.T) {
	manager, _ := newTestManager(t, &MockAuthRepository{})
	manager.newID = func() string { return "fixed-id" }

	id, svc := manager.Create()
	assert.Equal(t, "fixed-id", id)
	assert.Equal(t, "fixed-id", svc.Snapshot().ID)
	assert.Equal(t, StatusUnauthenticated, svc.Snapshot().Status)
	assert.Same(t, svc, manager.Resolve(id))
}

func TestForgetKeepsDurableRecord(t *testing.T) {
	manager, storage := newTestManager(t, &MockAuthRepository{})
	require.NoError(t, storage.Save(context.Background(), "browser-b", Record{Token: "2|tok"}))

	id, _ := manager.Create()
	manager.Forget(id)
	manager.Forget("browser-b")

	assert.True(t, storage.Has(testKeys.Token("browser-b")))
}

func TestEvictIdle(t *testing.T) {
	manager, _ := newTestManager(t, &MockAuthRepository{})
	idleID, idle := manager.Create()
	_, _ = manager.Create()

	idle.(*Store).lastSeen.Store(time.Now().Add(-time.Hour).UnixNano())

	assert.Equal(t, []string{idleID}, manager.EvictIdle(30*time.Minute))
	assert.Equal(t, 1, manager.Len())
	assert.NotSame(t, idle, manager.Resolve(idleID))
	assert.Empty(t, manager.EvictIdle(30*time.Minute))
	assert.Equal(t, 2, manager.Len())
}

func TestAnonymousIsSharedAndUntracked(t *testing.T) {
	manager, _ := newTestManager(t, &MockAuthRepository{})

	first, second := manager.Anonymous(), manager.Anonymous()
	assert.Same(t, first, second)
	assert.Zero(t, manager.Len())
	assertReleased(t, first)

	snap := first.Snapshot()
	assert.Equal(t, StatusUnauthenticated, snap.Status)
	assert.Empty(t, snap.ID)

	_, err := first.Login(context.Background(), repository.Credentials{Email: "ops@ferry.test"})
	assert.Error(t, err)
	first.Logout(context.Background())
	assert.Zero(t, manager.Len())
}
