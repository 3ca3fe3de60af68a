package dto

import (
	"encoding/json"

	"github.com/spec-kit/ferry-admin/internal/domain"
)

// RouteCreateRequest payload for new routes. Schedule is passed through as
// free text or a JSON document.
type RouteCreateRequest struct {
	VesselID    int64           `json:"vessel_id" validate:"required,gt=0"`
	Origin      string          `json:"origin" validate:"required,max=255"`
	Destination string          `json:"destination" validate:"required,max=255,nefield=Origin"`
	Price       float64         `json:"price" validate:"gte=0"`
	Duration    string          `json:"duration" validate:"omitempty,max=64"`
	Schedule    json.RawMessage `json:"schedule"`
	Status      string          `json:"status" validate:"omitempty,oneof=active inactive"`
}

func (r RouteCreateRequest) Patch() domain.Patch {
	p := domain.Patch{
		"vessel_id":   r.VesselID,
		"origin":      r.Origin,
		"destination": r.Destination,
		"price":       r.Price,
	}
	if r.Duration != "" {
		p["duration"] = r.Duration
	}
	if len(r.Schedule) > 0 {
		p["schedule"] = domain.Schedule(r.Schedule)
	}
	if r.Status != "" {
		p["status"] = r.Status
	}
	return p
}

// RouteUpdateRequest is a partial update. Duration and schedule may be
// cleared; a present schedule key is forwarded verbatim, null included.
type RouteUpdateRequest struct {
	VesselID    domain.Optional[int64]   `json:"vessel_id" validate:"omitempty,gt=0"`
	Origin      domain.Optional[string]  `json:"origin" validate:"omitempty,max=255"`
	Destination domain.Optional[string]  `json:"destination" validate:"omitempty,max=255"`
	Price       domain.Optional[float64] `json:"price" validate:"omitempty,gte=0"`
	Duration    domain.Optional[string]  `json:"duration" validate:"omitempty,max=64"`
	Schedule    json.RawMessage          `json:"schedule"`
	Status      domain.Optional[string]  `json:"status" validate:"omitempty,oneof=active inactive"`
}

func (r RouteUpdateRequest) CrossCheck() map[string]string {
	fields := map[string]string{}
	origin, hasOrigin := r.Origin.Get()
	destination, hasDestination := r.Destination.Get()
	if hasOrigin && hasDestination && origin == destination {
		fields["destination"] = "The destination and origin must be different."
	}
	if r.VesselID.IsNull() {
		fields["vessel_id"] = "The vessel id field cannot be cleared."
	}
	if r.Price.IsNull() {
		fields["price"] = "The price field cannot be cleared."
	}
	return fields
}

func (r RouteUpdateRequest) Patch() domain.Patch {
	p := domain.Patch{}
	domain.Put(p, "vessel_id", r.VesselID)
	domain.Put(p, "origin", r.Origin)
	domain.Put(p, "destination", r.Destination)
	domain.Put(p, "price", r.Price)
	domain.Put(p, "duration", r.Duration)
	if r.Schedule != nil {
		p["schedule"] = domain.Schedule(r.Schedule)
	}
	domain.Put(p, "status", r.Status)
	return p
}
