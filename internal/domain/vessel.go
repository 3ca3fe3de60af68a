package domain

import "time"

// VesselType enumerates fleet categories.
type VesselType string

const (
	VesselTypeFerry     VesselType = "ferry"
	VesselTypeCharter   VesselType = "charter"
	VesselTypeSpeedboat VesselType = "speedboat"
	VesselTypeYacht     VesselType = "yacht"
)

// VesselStatus is the operational state, independent of archiving.
type VesselStatus string

const (
	VesselStatusActive      VesselStatus = "active"
	VesselStatusInactive    VesselStatus = "inactive"
	VesselStatusMaintenance VesselStatus = "maintenance"
)

// Vessel is a boat in the fleet.
type Vessel struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Type        VesselType   `json:"type"`
	Capacity    int          `json:"capacity"`
	Description string       `json:"description,omitempty"`
	Image       string       `json:"image,omitempty"`
	Status      VesselStatus `json:"status"`
	CreatedAt   *time.Time   `json:"created_at,omitempty"`
	UpdatedAt   *time.Time   `json:"updated_at,omitempty"`
	DeletedAt   *time.Time   `json:"deleted_at,omitempty"`
}

// Lifecycle derives the archive state from the soft-delete marker.
func (v *Vessel) Lifecycle() Lifecycle {
	return LifecycleOf(v.DeletedAt)
}

// Availability is the seat picture of a vessel on a given date.
type Availability struct {
	VesselID       int64  `json:"vessel_id"`
	Date           string `json:"date"`
	Capacity       int    `json:"capacity"`
	BookedSeats    int    `json:"booked_seats"`
	AvailableSeats int    `json:"available_seats"`
	Available      bool   `json:"available"`
}
