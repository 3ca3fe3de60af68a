package dto

import "github.com/spec-kit/ferry-admin/internal/domain"

// UserCreateRequest payload for new staff or customer accounts.
type UserCreateRequest struct {
	Name                 string `json:"name" validate:"required,max=255"`
	Email                string `json:"email" validate:"required,email,max=255"`
	Phone                string `json:"phone" validate:"omitempty,max=32"`
	Role                 string `json:"role" validate:"required,oneof=superadmin admin agent customer"`
	Status               string `json:"status" validate:"omitempty,oneof=active inactive suspended"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

func (r UserCreateRequest) Patch() domain.Patch {
	p := domain.Patch{
		"name":                  r.Name,
		"email":                 r.Email,
		"role":                  r.Role,
		"password":              r.Password,
		"password_confirmation": r.PasswordConfirmation,
	}
	if r.Phone != "" {
		p["phone"] = r.Phone
	}
	if r.Status != "" {
		p["status"] = r.Status
	}
	return p
}

// UserUpdateRequest is a partial update. Phone may be cleared with null.
type UserUpdateRequest struct {
	Name                 domain.Optional[string] `json:"name" validate:"omitempty,max=255"`
	Email                domain.Optional[string] `json:"email" validate:"omitempty,email,max=255"`
	Phone                domain.Optional[string] `json:"phone" validate:"omitempty,max=32"`
	Role                 domain.Optional[string] `json:"role" validate:"omitempty,oneof=superadmin admin agent customer"`
	Status               domain.Optional[string] `json:"status" validate:"omitempty,oneof=active inactive suspended"`
	Password             domain.Optional[string] `json:"password" validate:"omitempty,min=8"`
	PasswordConfirmation domain.Optional[string] `json:"password_confirmation"`
}

// CrossCheck enforces the rules tags cannot see through Optional.
func (r UserUpdateRequest) CrossCheck() map[string]string {
	fields := requireNotCleared(map[string]domain.Optional[string]{"name": r.Name, "email": r.Email, "role": r.Role})
	password, hasPassword := r.Password.Get()
	confirmation, _ := r.PasswordConfirmation.Get()
	if hasPassword && password != confirmation {
		fields["password_confirmation"] = "The password confirmation must match password."
	}
	return fields
}

func (r UserUpdateRequest) Patch() domain.Patch {
	p := domain.Patch{}
	domain.Put(p, "name", r.Name)
	domain.Put(p, "email", r.Email)
	domain.Put(p, "phone", r.Phone)
	domain.Put(p, "role", r.Role)
	domain.Put(p, "status", r.Status)
	if _, ok := r.Password.Get(); ok {
		domain.Put(p, "password", r.Password)
		domain.Put(p, "password_confirmation", r.PasswordConfirmation)
	}
	return p
}
