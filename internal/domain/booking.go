package domain

import "time"

// BookingStatus tracks a reservation through fulfilment.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// Booking is a reservation on a route.
type Booking struct {
	ID               int64         `json:"id"`
	UserID           int64         `json:"user_id"`
	RouteID          int64         `json:"route_id"`
	VesselID         int64         `json:"vessel_id"`
	BookingReference string        `json:"booking_reference"`
	Date             string        `json:"date"`
	Time             string        `json:"time,omitempty"`
	Passengers       int           `json:"passengers"`
	TotalAmount      Money         `json:"total_amount"`
	Status           BookingStatus `json:"status"`
	User             *User         `json:"user,omitempty"`
	Route            *Route        `json:"route,omitempty"`
	Vessel           *Vessel       `json:"vessel,omitempty"`
	CreatedAt        *time.Time    `json:"created_at,omitempty"`
	UpdatedAt        *time.Time    `json:"updated_at,omitempty"`
}
