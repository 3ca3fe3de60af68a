// Package viewstate caches list reads per browser session and decides which
// of several overlapping reads may update what the session is shown.
package viewstate

import (
	"context"
	"sync"
	"time"

	"github.com/spec-kit/ferry-admin/internal/events"
)

// Key identifies one cached read. View separates independent screens of
// the same resource, such as a list and a nested history.
type Key struct {
	SessionID string
	Resource  events.Resource
	View      string
	Query     string
}

func (k Key) view() viewKey {
	return viewKey{sessionID: k.SessionID, resource: k.Resource, view: k.View}
}

// viewKey is what a session currently shows for a resource. Every read of
// the view draws a new generation; only the newest may commit.
type viewKey struct {
	sessionID string
	resource  events.Resource
	view      string
}

type entry struct {
	value    any
	storedAt time.Time
}

// Ticket is handed out by Begin and redeemed by Commit.
type Ticket struct {
	key        Key
	generation uint64
}

// Cache holds list responses. It is safe for concurrent use.
type Cache struct {
	staleAfter time.Duration
	now        func() time.Time

	mu          sync.Mutex
	entries     map[Key]entry
	generations map[viewKey]uint64
}

// New builds a cache. Entries older than staleAfter are refetched; a
// non-positive staleAfter disables reuse but keeps generation tracking.
func New(staleAfter time.Duration) *Cache {
	return &Cache{
		staleAfter:  staleAfter,
		now:         time.Now,
		entries:     make(map[Key]entry),
		generations: make(map[viewKey]uint64),
	}
}

// Get returns a fresh cached value for key. A stale entry is dropped.
func (c *Cache) Get(key Key) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.stale(e, c.now()) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

func (c *Cache) stale(e entry, now time.Time) bool {
	return c.staleAfter <= 0 || now.Sub(e.storedAt) >= c.staleAfter
}

// Begin starts a read of key and supersedes every read of the same view
// that is still in flight.
func (c *Cache) Begin(key Key) Ticket {
	c.mu.Lock()
	defer c.mu.Unlock()
	view := key.view()
	c.generations[view]++
	return Ticket{key: key, generation: c.generations[view]}
}

// Commit stores value if t is still the newest read of its view. It reports
// false for superseded reads, whose value must not replace the view.
func (c *Cache) Commit(t Ticket, value any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[t.key.view()] != t.generation {
		return false
	}
	if c.staleAfter > 0 {
		c.entries[t.key] = entry{value: value, storedAt: c.now()}
	}
	return true
}

// Sweep drops entries that went stale by now and were never read again.
func (c *Cache) Sweep(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	dropped := 0
	for key, e := range c.entries {
		if c.stale(e, now) {
			delete(c.entries, key)
			dropped++
		}
	}
	return dropped
}

// Invalidate drops every cached read of the resources, for all sessions,
// and supersedes reads already in flight so they cannot restore stale data.
func (c *Cache) Invalidate(resources ...events.Resource) int {
	targets := make(map[events.Resource]struct{}, len(resources))
	for _, r := range resources {
		targets[r] = struct{}{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	dropped := 0
	for key := range c.entries {
		if _, ok := targets[key.Resource]; ok {
			delete(c.entries, key)
			dropped++
		}
	}
	for view := range c.generations {
		if _, ok := targets[view.resource]; ok {
			c.generations[view]++
		}
	}
	return dropped
}

// ForgetSession drops everything cached for a browser session, including
// the generations of its views.
func (c *Cache) ForgetSession(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if key.SessionID == sessionID {
			delete(c.entries, key)
		}
	}
	for view := range c.generations {
		if view.sessionID == sessionID {
			delete(c.generations, view)
		}
	}
}

// Len reports the number of cached reads.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Affected lists the resources whose views change when resource is mutated.
func Affected(resource events.Resource) []events.Resource {
	switch resource {
	case events.ResourceBookings:
		return []events.Resource{events.ResourceBookings, events.ResourceDashboard, events.ResourceCustomers}
	case events.ResourceUsers:
		return []events.Resource{events.ResourceUsers, events.ResourceCustomers}
	case events.ResourceCustomers:
		return []events.Resource{events.ResourceCustomers, events.ResourceUsers}
	case events.ResourceProfile:
		return []events.Resource{events.ResourceProfile, events.ResourceUsers, events.ResourceCustomers}
	case events.ResourceVessels, events.ResourceRoutes:
		return []events.Resource{resource, events.ResourceDashboard}
	default:
		return []events.Resource{resource}
	}
}

// Subscribe wires invalidation to mutation events and drops a session's
// entries when it ends.
func (c *Cache) Subscribe(dispatcher events.Dispatcher) {
	dispatcher.Subscribe(events.EventResourceMutated, func(_ context.Context, e events.Event) error {
		payload, ok := e.Payload.(events.ResourceMutatedPayload)
		if !ok {
			return nil
		}
		c.Invalidate(Affected(payload.Resource)...)
		return nil
	})
	dispatcher.Subscribe(events.EventSessionEnded, func(_ context.Context, e events.Event) error {
		c.ForgetSession(e.SessionID)
		return nil
	})
}
