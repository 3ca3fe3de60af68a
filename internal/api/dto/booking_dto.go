package dto

import "github.com/spec-kit/ferry-admin/internal/domain"

// BookingCreateRequest payload for desk bookings.
type BookingCreateRequest struct {
	UserID      int64   `json:"user_id" validate:"required,gt=0"`
	RouteID     int64   `json:"route_id" validate:"required,gt=0"`
	VesselID    int64   `json:"vessel_id" validate:"omitempty,gt=0"`
	Date        string  `json:"date" validate:"required,datetime=2006-01-02"`
	Time        string  `json:"time" validate:"omitempty,datetime=15:04"`
	Passengers  int     `json:"passengers" validate:"required,gte=1,lte=500"`
	TotalAmount float64 `json:"total_amount" validate:"omitempty,gte=0"`
	Status      string  `json:"status" validate:"omitempty,oneof=pending confirmed cancelled completed"`
}

func (r BookingCreateRequest) Patch() domain.Patch {
	p := domain.Patch{
		"user_id":    r.UserID,
		"route_id":   r.RouteID,
		"date":       r.Date,
		"passengers": r.Passengers,
	}
	if r.VesselID > 0 {
		p["vessel_id"] = r.VesselID
	}
	if r.Time != "" {
		p["time"] = r.Time
	}
	if r.TotalAmount > 0 {
		p["total_amount"] = r.TotalAmount
	}
	if r.Status != "" {
		p["status"] = r.Status
	}
	return p
}

// BookingUpdateRequest is a partial update. Time may be cleared.
type BookingUpdateRequest struct {
	RouteID     domain.Optional[int64]   `json:"route_id" validate:"omitempty,gt=0"`
	VesselID    domain.Optional[int64]   `json:"vessel_id" validate:"omitempty,gt=0"`
	Date        domain.Optional[string]  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Time        domain.Optional[string]  `json:"time" validate:"omitempty,datetime=15:04"`
	Passengers  domain.Optional[int]     `json:"passengers" validate:"omitempty,gte=1,lte=500"`
	TotalAmount domain.Optional[float64] `json:"total_amount" validate:"omitempty,gte=0"`
	Status      domain.Optional[string]  `json:"status" validate:"omitempty,oneof=pending confirmed cancelled completed"`
}

func (r BookingUpdateRequest) CrossCheck() map[string]string {
	fields := map[string]string{}
	if r.Date.IsNull() {
		fields["date"] = "The date field cannot be cleared."
	}
	if r.Passengers.IsNull() {
		fields["passengers"] = "The passengers field cannot be cleared."
	}
	if r.Status.IsNull() {
		fields["status"] = "The status field cannot be cleared."
	}
	return fields
}

func (r BookingUpdateRequest) Patch() domain.Patch {
	p := domain.Patch{}
	domain.Put(p, "route_id", r.RouteID)
	domain.Put(p, "vessel_id", r.VesselID)
	domain.Put(p, "date", r.Date)
	domain.Put(p, "time", r.Time)
	domain.Put(p, "passengers", r.Passengers)
	domain.Put(p, "total_amount", r.TotalAmount)
	domain.Put(p, "status", r.Status)
	return p
}
