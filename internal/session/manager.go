package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/ferry-admin/internal/events"
	"github.com/spec-kit/ferry-admin/internal/repository"
)

// Resolver hands out the session service of a browser.
type Resolver interface {
	// Resolve returns the session for id, rehydrating it in the background
	// the first time this process sees it.
	Resolve(id string) Service
	// Create starts a fresh, already resolved, signed-out session.
	Create() (string, Service)
	// Anonymous returns the signed-out session of a browser that has none.
	// It is shared and never tracked.
	Anonymous() Service
	// Forget drops the in-memory session; durable state is untouched.
	Forget(id string)
}

// Manager keeps one Store per browser session id.
type Manager struct {
	storage     Storage
	auth        repository.AuthRepository
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	initTimeout time.Duration
	newID       func() string
	guest       *guest

	mu     sync.Mutex
	stores map[string]*Store
}

// ManagerDeps bundles collaborators of a Manager.
type ManagerDeps struct {
	Storage     Storage
	Auth        repository.AuthRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
	InitTimeout time.Duration
}

// NewManager builds a manager.
func NewManager(deps ManagerDeps) *Manager {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := deps.InitTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Manager{
		storage:     deps.Storage,
		auth:        deps.Auth,
		dispatcher:  deps.Dispatcher,
		logger:      logger,
		initTimeout: timeout,
		newID:       uuid.NewString,
		guest:       newGuest(),
		stores:      make(map[string]*Store),
	}
}

func (m *Manager) Resolve(id string) Service {
	m.mu.Lock()
	store, ok := m.stores[id]
	if ok {
		m.mu.Unlock()
		store.touch()
		return store
	}
	store = m.newStore(id)
	m.stores[id] = store
	m.mu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), m.initTimeout)
		defer cancel()
		store.Init(ctx)
	}()
	return store
}

func (m *Manager) Create() (string, Service) {
	id := m.newID()
	store := m.newStore(id)
	store.release()

	m.mu.Lock()
	m.stores[id] = store
	m.mu.Unlock()
	return id, store
}

func (m *Manager) Anonymous() Service {
	return m.guest
}

func (m *Manager) Forget(id string) {
	m.mu.Lock()
	store, ok := m.stores[id]
	delete(m.stores, id)
	m.mu.Unlock()
	if ok {
		store.Close()
	}
}

// EvictIdle forgets stores unseen for longer than maxIdle and returns their
// ids. Their durable records survive, so the browser is rehydrated on its
// next request.
func (m *Manager) EvictIdle(maxIdle time.Duration) []string {
	cutoff := time.Now().Add(-maxIdle)

	m.mu.Lock()
	var idle []*Store
	for id, store := range m.stores {
		if store.LastSeen().Before(cutoff) {
			idle = append(idle, store)
			delete(m.stores, id)
		}
	}
	m.mu.Unlock()

	ids := make([]string, 0, len(idle))
	for _, store := range idle {
		store.Close()
		ids = append(ids, store.ID())
	}
	return ids
}

// Len counts stores held in memory, signed in or not.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stores)
}

// Active counts stores currently signed in.
func (m *Manager) Active() int {
	m.mu.Lock()
	stores := make([]*Store, 0, len(m.stores))
	for _, store := range m.stores {
		stores = append(stores, store)
	}
	m.mu.Unlock()

	active := 0
	for _, store := range stores {
		if store.Snapshot().Status == StatusAuthenticated {
			active++
		}
	}
	return active
}

// Storage exposes the durable driver, for housekeeping.
func (m *Manager) Storage() Storage {
	return m.storage
}

func (m *Manager) newStore(id string) *Store {
	return NewStore(id, StoreDeps{
		Storage:    m.storage,
		Auth:       m.auth,
		Dispatcher: m.dispatcher,
		Logger:     m.logger,
	})
}
