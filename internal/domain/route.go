package domain

import (
	"encoding/json"
	"time"
)

// RouteStatus is whether a route is currently sold.
type RouteStatus string

const (
	RouteStatusActive   RouteStatus = "active"
	RouteStatusInactive RouteStatus = "inactive"
)

// Route is a sailing between two ports operated by a vessel.
type Route struct {
	ID          int64       `json:"id"`
	VesselID    int64       `json:"vessel_id"`
	Vessel      *Vessel     `json:"vessel,omitempty"`
	Origin      string      `json:"origin"`
	Destination string      `json:"destination"`
	Price       Money       `json:"price"`
	Duration    string      `json:"duration,omitempty"`
	Schedule    Schedule    `json:"schedule,omitempty"`
	Status      RouteStatus `json:"status"`
	CreatedAt   *time.Time  `json:"created_at,omitempty"`
	UpdatedAt   *time.Time  `json:"updated_at,omitempty"`
}

// Schedule is either free text or an opaque JSON document. The raw bytes are
// kept so round trips do not reshape what the backend stored.
type Schedule json.RawMessage

// Text returns the schedule as plain text when it was stored as a string.
func (s Schedule) Text() (string, bool) {
	var text string
	if len(s) == 0 || string(s) == "null" {
		return "", false
	}
	if err := json.Unmarshal(s, &text); err != nil {
		return "", false
	}
	return text, true
}

func (s Schedule) MarshalJSON() ([]byte, error) {
	if len(s) == 0 {
		return []byte("null"), nil
	}
	return s, nil
}

func (s *Schedule) UnmarshalJSON(data []byte) error {
	*s = append((*s)[:0], data...)
	return nil
}
