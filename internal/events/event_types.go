package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/ferry-admin/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSessionStarted  EventType = "session_started"
	EventSessionRestored EventType = "session_restored"
	EventSessionEnded    EventType = "session_ended"
	EventResourceMutated EventType = "resource_mutated"
)

// Resource names a backend collection whose cached views can go stale.
type Resource string

const (
	ResourceUsers     Resource = "users"
	ResourceVessels   Resource = "vessels"
	ResourceRoutes    Resource = "routes"
	ResourceBookings  Resource = "bookings"
	ResourceCustomers Resource = "customers"
	ResourceDashboard Resource = "dashboard"
	ResourceProfile   Resource = "profile"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID int64       `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents something that happened to a browser session.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SessionID string      `json:"session_id"`
	Actor     *Actor      `json:"actor,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// NewEvent stamps an event with an id and the current time.
func NewEvent(eventType EventType, sessionID string, actor *Actor, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SessionID: sessionID,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// ActorOf builds the actor for user, or nil when nobody is signed in.
func ActorOf(user *domain.User) *Actor {
	if user == nil {
		return nil
	}
	return &Actor{UserID: user.ID, Role: user.Role}
}

// SessionEndedPayload explains why a session was cleared.
type SessionEndedPayload struct {
	Reason string `json:"reason"`
}

// Session end reasons.
const (
	ReasonLogout       = "logout"
	ReasonInvalidToken = "invalid_token"
	ReasonCorrupt      = "corrupt_storage"
)

// ResourceMutatedPayload is published after the backend confirms a write.
type ResourceMutatedPayload struct {
	Resource Resource `json:"resource"`
	Action   string   `json:"action"`
	EntityID int64    `json:"entity_id,omitempty"`
}
