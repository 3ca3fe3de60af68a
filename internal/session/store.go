// Package session holds the signed-in state of each admin browser: the
// current user and bearer token, persisted in durable storage and
// rehydrated when the process meets the browser again.
package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ferry-admin/internal/domain"
	"github.com/spec-kit/ferry-admin/internal/events"
	"github.com/spec-kit/ferry-admin/internal/repository"
	apperrors "github.com/spec-kit/ferry-admin/pkg/util"
)

// Status is the tri-state seen by route guards.
type Status int

const (
	StatusLoading Status = iota
	StatusAuthenticated
	StatusUnauthenticated
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Snapshot is a consistent read of a session.
type Snapshot struct {
	ID     string
	Status Status
	User   *domain.User
	Token  string
}

// IsAuthenticated holds iff both the user and the token are present. A token
// whose user has not been confirmed does not count.
func (s Snapshot) IsAuthenticated() bool {
	return s.User != nil && s.Token != ""
}

// Role returns the signed-in role, or the empty role.
func (s Snapshot) Role() domain.Role {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}

// Service is the session contract handlers depend on.
type Service interface {
	// Init rehydrates from durable storage and releases the ready gate once.
	Init(ctx context.Context)
	// Ready is closed once the session is resolved.
	Ready() <-chan struct{}
	Snapshot() Snapshot
	Login(ctx context.Context, creds repository.Credentials) (*domain.User, error)
	Register(ctx context.Context, reg repository.Registration) (*domain.User, error)
	// Logout never fails: the backend call is best effort and local state is always cleared.
	Logout(ctx context.Context)
	// RefetchUser refreshes the user; failures are logged and the stale user kept.
	RefetchUser(ctx context.Context)
	// Close releases waiters without touching durable storage.
	Close()
}

// Store is the Service implementation for one browser session.
type Store struct {
	id         string
	storage    Storage
	auth       repository.AuthRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger

	// writeMu orders durable writes with the epoch checks guarding them.
	// It is always taken before mu.
	writeMu sync.Mutex

	mu       sync.RWMutex
	user     *domain.User
	token    string
	resolved bool
	epoch    uint64

	ready     chan struct{}
	readyOnce sync.Once
	lastSeen  atomic.Int64
}

// StoreDeps bundles collaborators of a Store.
type StoreDeps struct {
	Storage    Storage
	Auth       repository.AuthRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewStore builds an unresolved store; call Init to rehydrate it.
func NewStore(id string, deps StoreDeps) *Store {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	dispatcher := deps.Dispatcher
	if dispatcher == nil {
		dispatcher = events.NewNopDispatcher()
	}
	s := &Store{
		id:         id,
		storage:    deps.Storage,
		auth:       deps.Auth,
		dispatcher: dispatcher,
		logger:     logger.With(zap.String("session_id", id)),
		ready:      make(chan struct{}),
	}
	s.touch()
	return s
}

// Init rehydrates the session from durable storage, confirms the stored
// token with the backend and releases the ready gate.
func (s *Store) Init(ctx context.Context) {
	defer s.release()

	s.mu.RLock()
	epoch := s.epoch
	s.mu.RUnlock()

	record, err := s.storage.Load(ctx, s.id)
	switch {
	case errors.Is(err, ErrNotFound):
		return
	case errors.Is(err, ErrCorrupt):
		s.logger.Warn("stored session is corrupt, clearing", zap.Error(err))
		s.clearIf(ctx, epoch, events.ReasonCorrupt)
		return
	case err != nil:
		s.logger.Warn("session storage unavailable during rehydration", zap.Error(err))
		return
	}

	// The token is known before the user is confirmed; Snapshot reports
	// loading until release, so nothing treats this window as signed in.
	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		return
	}
	s.token, s.user = record.Token, nil
	s.mu.Unlock()

	user, err := s.auth.Me(ctx, record.Token)
	if err != nil {
		s.logger.Info("stored token rejected, clearing session", zap.Error(err))
		s.clearIf(ctx, epoch, events.ReasonInvalidToken)
		return
	}

	s.writeMu.Lock()
	if !s.setUserIf(epoch, user) {
		s.writeMu.Unlock()
		return
	}
	if err := s.storage.Save(ctx, s.id, Record{Token: record.Token, User: user}); err != nil {
		s.logger.Warn("refresh stored user failed", zap.Error(err))
	}
	s.writeMu.Unlock()
	s.publish(ctx, events.EventSessionRestored, user, nil)
}

// Ready is closed once the session is resolved.
func (s *Store) Ready() <-chan struct{} {
	return s.ready
}

// Snapshot returns the current user, token and status.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{ID: s.id, User: s.user, Token: s.token}
	switch {
	case !s.resolved:
		snap.Status = StatusLoading
	case snap.IsAuthenticated():
		snap.Status = StatusAuthenticated
	default:
		snap.Status = StatusUnauthenticated
	}
	return snap
}

// Login signs in with the backend and persists the session.
func (s *Store) Login(ctx context.Context, creds repository.Credentials) (*domain.User, error) {
	result, err := s.auth.Login(ctx, creds)
	if err != nil {
		return nil, err
	}
	if err := s.establish(ctx, result); err != nil {
		return nil, err
	}
	return result.User, nil
}

// Register creates an account with the backend and signs it in.
func (s *Store) Register(ctx context.Context, reg repository.Registration) (*domain.User, error) {
	result, err := s.auth.Register(ctx, reg)
	if err != nil {
		return nil, err
	}
	if err := s.establish(ctx, result); err != nil {
		return nil, err
	}
	return result.User, nil
}

// establish writes durable storage before memory so both always hold the same session.
func (s *Store) establish(ctx context.Context, result *repository.AuthResult) error {
	s.writeMu.Lock()
	if err := s.storage.Save(ctx, s.id, Record{Token: result.Token, User: result.User}); err != nil {
		s.writeMu.Unlock()
		s.logger.Error("persist session failed", zap.Error(err))
		if logoutErr := s.auth.Logout(ctx, result.Token); logoutErr != nil {
			s.logger.Warn("revoke unpersisted token failed", zap.Error(logoutErr))
		}
		return apperrors.NewInternalError(err)
	}

	s.mu.Lock()
	s.user, s.token = result.User, result.Token
	s.epoch++
	s.mu.Unlock()
	s.writeMu.Unlock()
	s.release()

	s.publish(ctx, events.EventSessionStarted, result.User, nil)
	return nil
}

// Logout revokes the token with the backend, best effort, and always clears
// local and durable state.
func (s *Store) Logout(ctx context.Context) {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()

	if token != "" {
		if err := s.auth.Logout(ctx, token); err != nil {
			s.logger.Warn("backend logout failed, clearing local session anyway", zap.Error(err))
		}
	}
	s.clear(ctx, events.ReasonLogout)
	s.release()
}

// RefetchUser reloads the signed-in user. On failure the stale user is kept.
func (s *Store) RefetchUser(ctx context.Context) {
	s.mu.RLock()
	token, epoch := s.token, s.epoch
	s.mu.RUnlock()
	if token == "" {
		return
	}

	user, err := s.auth.Me(ctx, token)
	if err != nil {
		s.logger.Warn("refetch user failed, keeping stale user", zap.Error(err))
		return
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if !s.setUserIf(epoch, user) {
		return
	}
	if err := s.storage.Save(ctx, s.id, Record{Token: token, User: user}); err != nil {
		s.logger.Warn("refresh stored user failed", zap.Error(err))
	}
}

// Close releases waiters without touching durable storage.
func (s *Store) Close() {
	s.release()
}

// ID returns the browser session id.
func (s *Store) ID() string {
	return s.id
}

// LastSeen reports when the store was last resolved.
func (s *Store) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

func (s *Store) touch() {
	s.lastSeen.Store(time.Now().UnixNano())
}

// clear signs the session out of memory and durable storage.
func (s *Store) clear(ctx context.Context, reason string) {
	s.writeMu.Lock()
	user := s.wipe(ctx)
	s.writeMu.Unlock()
	s.publish(ctx, events.EventSessionEnded, user, events.SessionEndedPayload{Reason: reason})
}

// clearIf clears only if no sign-in or sign-out happened since epoch was read.
func (s *Store) clearIf(ctx context.Context, epoch uint64, reason string) {
	s.writeMu.Lock()
	if !s.sameEpoch(epoch) {
		s.writeMu.Unlock()
		return
	}
	user := s.wipe(ctx)
	s.writeMu.Unlock()
	s.publish(ctx, events.EventSessionEnded, user, events.SessionEndedPayload{Reason: reason})
}

// wipe must be called with writeMu held.
func (s *Store) wipe(ctx context.Context) *domain.User {
	s.mu.Lock()
	user := s.user
	s.user, s.token = nil, ""
	s.epoch++
	s.mu.Unlock()

	// A disconnected browser must not leave durable state behind.
	if err := s.storage.Clear(context.WithoutCancel(ctx), s.id); err != nil {
		s.logger.Warn("clear stored session failed", zap.Error(err))
	}
	return user
}

// setUserIf must be called with writeMu held.
func (s *Store) setUserIf(epoch uint64, user *domain.User) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return false
	}
	s.user = user
	return true
}

func (s *Store) sameEpoch(epoch uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch == epoch
}

func (s *Store) release() {
	s.readyOnce.Do(func() {
		s.mu.Lock()
		s.resolved = true
		s.mu.Unlock()
		close(s.ready)
	})
}

func (s *Store) publish(ctx context.Context, eventType events.EventType, user *domain.User, payload interface{}) {
	event := events.NewEvent(eventType, s.id, events.ActorOf(user), payload)
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("session event handler failed", zap.String("event", string(eventType)), zap.Error(err))
	}
}
