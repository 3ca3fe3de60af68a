package dto

import "github.com/spec-kit/ferry-admin/internal/domain"

// CustomerCreateRequest payload for customers registered at the desk.
type CustomerCreateRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Phone    string `json:"phone" validate:"omitempty,max=32"`
	Password string `json:"password" validate:"omitempty,min=8"`
}

func (r CustomerCreateRequest) Patch() domain.Patch {
	p := domain.Patch{"name": r.Name, "email": r.Email}
	if r.Phone != "" {
		p["phone"] = r.Phone
	}
	if r.Password != "" {
		p["password"] = r.Password
	}
	return p
}

// CustomerUpdateRequest is a partial update. Phone may be cleared.
type CustomerUpdateRequest struct {
	Name  domain.Optional[string] `json:"name" validate:"omitempty,max=255"`
	Email domain.Optional[string] `json:"email" validate:"omitempty,email,max=255"`
	Phone domain.Optional[string] `json:"phone" validate:"omitempty,max=32"`
}

func (r CustomerUpdateRequest) CrossCheck() map[string]string {
	return requireNotCleared(map[string]domain.Optional[string]{"name": r.Name, "email": r.Email})
}

func (r CustomerUpdateRequest) Patch() domain.Patch {
	p := domain.Patch{}
	domain.Put(p, "name", r.Name)
	domain.Put(p, "email", r.Email)
	domain.Put(p, "phone", r.Phone)
	return p
}
