package dto

import "github.com/spec-kit/ferry-admin/internal/domain"

// VesselCreateRequest payload for new vessels.
type VesselCreateRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Type        string `json:"type" validate:"required,oneof=ferry charter speedboat yacht"`
	Capacity    int    `json:"capacity" validate:"required,gt=0,lte=10000"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	Status      string `json:"status" validate:"omitempty,oneof=active inactive maintenance"`
}

func (r VesselCreateRequest) Patch() domain.Patch {
	p := domain.Patch{"name": r.Name, "type": r.Type, "capacity": r.Capacity}
	if r.Description != "" {
		p["description"] = r.Description
	}
	if r.Status != "" {
		p["status"] = r.Status
	}
	return p
}

// VesselUpdateRequest is a partial update. Description may be cleared.
type VesselUpdateRequest struct {
	Name        domain.Optional[string] `json:"name" validate:"omitempty,max=255"`
	Type        domain.Optional[string] `json:"type" validate:"omitempty,oneof=ferry charter speedboat yacht"`
	Capacity    domain.Optional[int]    `json:"capacity" validate:"omitempty,gt=0,lte=10000"`
	Description domain.Optional[string] `json:"description" validate:"omitempty,max=2000"`
	Status      domain.Optional[string] `json:"status" validate:"omitempty,oneof=active inactive maintenance"`
}

func (r VesselUpdateRequest) CrossCheck() map[string]string {
	fields := map[string]string{}
	if r.Name.IsNull() {
		fields["name"] = "The name field cannot be cleared."
	}
	if r.Type.IsNull() {
		fields["type"] = "The type field cannot be cleared."
	}
	if r.Capacity.IsNull() {
		fields["capacity"] = "The capacity field cannot be cleared."
	}
	if r.Status.IsNull() {
		fields["status"] = "The status field cannot be cleared."
	}
	return fields
}

func (r VesselUpdateRequest) Patch() domain.Patch {
	p := domain.Patch{}
	domain.Put(p, "name", r.Name)
	domain.Put(p, "type", r.Type)
	domain.Put(p, "capacity", r.Capacity)
	domain.Put(p, "description", r.Description)
	domain.Put(p, "status", r.Status)
	return p
}
