package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/spec-kit/ferry-admin/internal/apiclient"
	"github.com/spec-kit/ferry-admin/internal/domain"
	"github.com/spec-kit/ferry-admin/internal/events"
	"github.com/spec-kit/ferry-admin/internal/repository"
)

type MockAuthRepository struct {
	mock.Mock
}

func (m *MockAuthRepository) Login(ctx context.Context, creds repository.Credentials) (*repository.AuthResult, error) {
	args := m.Called(ctx, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.AuthResult), args.Error(1)
}

func (m *MockAuthRepository) Register(ctx context.Context, reg repository.Registration) (*repository.AuthResult, error) {
	args := m.Called(ctx, reg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.AuthResult), args.Error(1)
}

func (m *MockAuthRepository) Logout(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockAuthRepository) Me(ctx context.Context, token string) (*domain.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

const sid = "sid-1"

var testKeys = Keys{Prefix: "test:session"}

func newTestStore(t *testing.T, auth repository.AuthRepository) (*Store, *MemoryStorage, events.Dispatcher) {
	t.Helper()
	storage := NewMemoryStorage(testKeys, time.Hour)
	dispatcher := events.NewInMemoryDispatcher()
	store := NewStore(sid, StoreDeps{
		Storage:    storage,
		Auth:       auth,
		Dispatcher: dispatcher,
		Logger:     zaptest.NewLogger(t),
	})
	return store, storage, dispatcher
}

func admin() *domain.User {
	return &domain.User{ID: 1, Name: "Ops Admin", Email: "ops@ferry.test", Role: domain.RoleAdmin}
}

func assertReleased(t *testing.T, s Service) {
	t.Helper()
	select {
	case <-s.Ready():
	case <-time.After(time.Second):
		t.Fatal("ready gate was not released")
	}
}

func TestLoginStoresUserAndTokenTogether(t *testing.T) {
	auth := &MockAuthRepository{}
	creds := repository.Credentials{Email: "ops@ferry.test", Password: "secret"}
	auth.On("Login", mock.Anything, creds).Return(&repository.AuthResult{User: admin(), Token: "1|tok"}, nil)

	store, storage, dispatcher := newTestStore(t, auth)
	var started []events.Event
	dispatcher.Subscribe(events.EventSessionStarted, func(_ context.Context, e events.Event) error {
		started = append(started, e)
		return nil
	})

	user, err := store.Login(context.Background(), creds)
	require.NoError(t, err)
	assert.Equal(t, "Ops Admin", user.Name)

	snap := store.Snapshot()
	assert.True(t, snap.IsAuthenticated())
	assert.Equal(t, StatusAuthenticated, snap.Status)
	assert.True(t, storage.Has(testKeys.Token(sid)))
	assert.True(t, storage.Has(testKeys.User(sid)))
	assertReleased(t, store)
	require.Len(t, started, 1)
	assert.Equal(t, domain.RoleAdmin, started[0].Actor.Role)
}

func TestLoginFailurePropagatesUntouched(t *testing.T) {
	backendErr := &apiclient.APIError{Status: http.StatusUnauthorized, Message: "These credentials do not match our records."}
	auth := &MockAuthRepository{}
	auth.On("Login", mock.Anything, mock.Anything).Return(nil, backendErr)

	store, storage, _ := newTestStore(t, auth)
	store.release()

	_, err := store.Login(context.Background(), repository.Credentials{Email: "x@ferry.test", Password: "nope"})
	assert.Same(t, backendErr, err)
	assert.False(t, store.Snapshot().IsAuthenticated())
	assert.False(t, storage.Has(testKeys.Token(sid)))
}

func TestRegisterEstablishesSession(t *testing.T) {
	auth := &MockAuthRepository{}
	customer := &domain.User{ID: 9, Name: "New Customer", Role: domain.RoleCustomer}
	auth.On("Register", mock.Anything, mock.Anything).Return(&repository.AuthResult{User: customer, Token: "9|tok"}, nil)

	store, storage, _ := newTestStore(t, auth)
	_, err := store.Register(context.Background(), repository.Registration{Name: "New Customer"})
	require.NoError(t, err)

	assert.Equal(t, domain.RoleCustomer, store.Snapshot().Role())
	token, ok := storage.Raw(testKeys.Token(sid))
	assert.True(t, ok)
	assert.Equal(t, "9|tok", token)
}

func TestLogoutClearsEvenWhenBackendFails(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			_, _ = w.Write([]byte(`{"user":{"id":1,"name":"Ops","role":"admin"},"token":"1|tok"}`))
		case "/logout":
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer backend.Close()
	auth := repository.NewAuthRepository(apiclient.New(apiclient.Options{BaseURL: backend.URL, Timeout: time.Second}))

	store, storage, dispatcher := newTestStore(t, auth)
	var reasons []string
	dispatcher.Subscribe(events.EventSessionEnded, func(_ context.Context, e events.Event) error {
		reasons = append(reasons, e.Payload.(events.SessionEndedPayload).Reason)
		return nil
	})

	_, err := store.Login(context.Background(), repository.Credentials{Email: "ops@ferry.test", Password: "secret"})
	require.NoError(t, err)
	require.True(t, store.Snapshot().IsAuthenticated())

	store.Logout(context.Background())

	snap := store.Snapshot()
	assert.False(t, snap.IsAuthenticated())
	assert.Nil(t, snap.User)
	assert.Empty(t, snap.Token)
	assert.False(t, storage.Has(testKeys.Token(sid)))
	assert.False(t, storage.Has(testKeys.User(sid)))
	assert.Equal(t, []string{events.ReasonLogout}, reasons)
}

func TestInitWithRejectedTokenClearsEverything(t *testing.T) {
	auth := &MockAuthRepository{}
	auth.On("Me", mock.Anything, "expired").Return(nil, &apiclient.APIError{Status: http.StatusUnauthorized})

	store, storage, _ := newTestStore(t, auth)
	require.NoError(t, storage.Save(context.Background(), sid, Record{Token: "expired", User: admin()}))

	assert.Equal(t, StatusLoading, store.Snapshot().Status)
	store.Init(context.Background())

	snap := store.Snapshot()
	assert.Equal(t, StatusUnauthenticated, snap.Status)
	assert.False(t, snap.IsAuthenticated())
	assert.False(t, storage.Has(testKeys.Token(sid)))
	assert.False(t, storage.Has(testKeys.User(sid)))
	assertReleased(t, store)
}

func TestInitRestoresAndRefreshesStoredUser(t *testing.T) {
	fresh := admin()
	fresh.Name = "Renamed Admin"
	auth := &MockAuthRepository{}
	auth.On("Me", mock.Anything, "1|tok").Return(fresh, nil)

	store, storage, _ := newTestStore(t, auth)
	require.NoError(t, storage.Save(context.Background(), sid, Record{Token: "1|tok", User: admin()}))

	store.Init(context.Background())

	snap := store.Snapshot()
	assert.Equal(t, StatusAuthenticated, snap.Status)
	assert.Equal(t, "Renamed Admin", snap.User.Name)
	record, err := storage.Load(context.Background(), sid)
	require.NoError(t, err)
	assert.Equal(t, "Renamed Admin", record.User.Name)
}

func TestInitWithoutStoredTokenResolvesSignedOut(t *testing.T) {
	auth := &MockAuthRepository{}
	store, _, _ := newTestStore(t, auth)

	store.Init(context.Background())
	store.Init(context.Background())

	assert.Equal(t, StatusUnauthenticated, store.Snapshot().Status)
	assertReleased(t, store)
	auth.AssertNotCalled(t, "Me", mock.Anything, mock.Anything)
}

func TestTokenWithoutUserIsNotAuthenticated(t *testing.T) {
	assert.False(t, Snapshot{Token: "1|tok"}.IsAuthenticated())
	assert.False(t, Snapshot{User: admin()}.IsAuthenticated())
	assert.True(t, Snapshot{Token: "1|tok", User: admin()}.IsAuthenticated())
}

func TestInitLoadingWindowReportsLoading(t *testing.T) {
	entered := make(chan struct{})
	proceed := make(chan struct{})
	auth := &MockAuthRepository{}
	auth.On("Me", mock.Anything, "1|tok").Run(func(mock.Arguments) {
		close(entered)
		<-proceed
	}).Return(admin(), nil)

	store, storage, _ := newTestStore(t, auth)
	require.NoError(t, storage.Save(context.Background(), sid, Record{Token: "1|tok"}))

	done := make(chan struct{})
	go func() {
		store.Init(context.Background())
		close(done)
	}()

	<-entered
	snap := store.Snapshot()
	assert.Equal(t, StatusLoading, snap.Status)
	assert.Equal(t, "1|tok", snap.Token)
	assert.False(t, snap.IsAuthenticated())

	close(proceed)
	<-done
	assert.Equal(t, StatusAuthenticated, store.Snapshot().Status)
}

func TestRefetchUserKeepsStaleUserOnFailure(t *testing.T) {
	auth := &MockAuthRepository{}
	auth.On("Login", mock.Anything, mock.Anything).Return(&repository.AuthResult{User: admin(), Token: "1|tok"}, nil)
	auth.On("Me", mock.Anything, "1|tok").Return(nil, errors.New("connection reset")).Once()

	store, _, _ := newTestStore(t, auth)
	_, err := store.Login(context.Background(), repository.Credentials{})
	require.NoError(t, err)

	store.RefetchUser(context.Background())
	assert.Equal(t, "Ops Admin", store.Snapshot().User.Name)

	updated := admin()
	updated.Avatar = "avatars/1.png"
	auth.On("Me", mock.Anything, "1|tok").Return(updated, nil).Once()
	store.RefetchUser(context.Background())
	assert.Equal(t, "avatars/1.png", store.Snapshot().User.Avatar)
}

func TestRefetchUserWithoutTokenIsNoop(t *testing.T) {
	auth := &MockAuthRepository{}
	store, _, _ := newTestStore(t, auth)
	store.RefetchUser(context.Background())
	auth.AssertNotCalled(t, "Me", mock.Anything, mock.Anything)
}

type failingStorage struct {
	*MemoryStorage
}

func (failingStorage) Save(context.Context, string, Record) error {
	return errors.New("redis down")
}

func TestLoginRevokesTokenWhenPersistFails(t *testing.T) {
	auth := &MockAuthRepository{}
	auth.On("Login", mock.Anything, mock.Anything).Return(&repository.AuthResult{User: admin(), Token: "1|tok"}, nil)
	auth.On("Logout", mock.Anything, "1|tok").Return(nil)

	store := NewStore(sid, StoreDeps{
		Storage: failingStorage{NewMemoryStorage(testKeys, time.Hour)},
		Auth:    auth,
		Logger:  zaptest.NewLogger(t),
	})

	_, err := store.Login(context.Background(), repository.Credentials{})
	require.Error(t, err)
	assert.False(t, store.Snapshot().IsAuthenticated())
	auth.AssertCalled(t, "Logout", mock.Anything, "1|tok")
}

// gatedStorage reads the record, then holds it until released.
type gatedStorage struct {
	*MemoryStorage
	loaded  chan struct{}
	release chan struct{}
}

func (g gatedStorage) Load(ctx context.Context, sessionID string) (*Record, error) {
	record, err := g.MemoryStorage.Load(ctx, sessionID)
	close(g.loaded)
	<-g.release
	return record, err
}

func TestLogoutDuringRehydrationStaysSignedOut(t *testing.T) {
	auth := &MockAuthRepository{}
	auth.On("Me", mock.Anything, mock.Anything).Return(admin(), nil).Maybe()
	auth.On("Logout", mock.Anything, mock.Anything).Return(nil).Maybe()

	storage := gatedStorage{
		MemoryStorage: NewMemoryStorage(testKeys, time.Hour),
		loaded:        make(chan struct{}),
		release:       make(chan struct{}),
	}
	require.NoError(t, storage.Save(context.Background(), sid, Record{Token: "1|tok", User: admin()}))
	store := NewStore(sid, StoreDeps{Storage: storage, Auth: auth, Logger: zaptest.NewLogger(t)})

	done := make(chan struct{})
	go func() {
		store.Init(context.Background())
		close(done)
	}()

	<-storage.loaded
	store.Logout(context.Background())
	close(storage.release)
	<-done

	snap := store.Snapshot()
	assert.Equal(t, StatusUnauthenticated, snap.Status)
	assert.Empty(t, snap.Token)
	assert.Nil(t, snap.User)
	assert.False(t, storage.Has(testKeys.Token(sid)))
	assert.False(t, storage.Has(testKeys.User(sid)))
	auth.AssertNotCalled(t, "Me", mock.Anything, mock.Anything)
}

func TestLoginDuringRehydrationIsNotOverwritten(t *testing.T) {
	fresh := admin()
	fresh.Name = "Fresh Admin"
	auth := &MockAuthRepository{}
	auth.On("Login", mock.Anything, mock.Anything).Return(&repository.AuthResult{User: fresh, Token: "2|new"}, nil)
	auth.On("Me", mock.Anything, mock.Anything).Return(admin(), nil).Maybe()

	storage := gatedStorage{
		MemoryStorage: NewMemoryStorage(testKeys, time.Hour),
		loaded:        make(chan struct{}),
		release:       make(chan struct{}),
	}
	require.NoError(t, storage.Save(context.Background(), sid, Record{Token: "1|old", User: admin()}))
	store := NewStore(sid, StoreDeps{Storage: storage, Auth: auth, Logger: zaptest.NewLogger(t)})

	done := make(chan struct{})
	go func() {
		store.Init(context.Background())
		close(done)
	}()

	<-storage.loaded
	_, err := store.Login(context.Background(), repository.Credentials{})
	require.NoError(t, err)
	close(storage.release)
	<-done

	snap := store.Snapshot()
	assert.Equal(t, "2|new", snap.Token)
	assert.Equal(t, "Fresh Admin", snap.User.Name)
	raw, ok := storage.Raw(testKeys.Token(sid))
	require.True(t, ok)
	assert.Equal(t, "2|new", raw)
}
