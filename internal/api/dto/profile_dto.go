package dto

import (
	"github.com/spec-kit/ferry-admin/internal/domain"
	"github.com/spec-kit/ferry-admin/internal/repository"
)

// ProfileUpdateRequest edits the signed-in user's own account.
type ProfileUpdateRequest struct {
	Name  domain.Optional[string] `json:"name" validate:"omitempty,max=255"`
	Email domain.Optional[string] `json:"email" validate:"omitempty,email,max=255"`
	Phone domain.Optional[string] `json:"phone" validate:"omitempty,max=32"`
}

func (r ProfileUpdateRequest) CrossCheck() map[string]string {
	return requireNotCleared(map[string]domain.Optional[string]{"name": r.Name, "email": r.Email})
}

func (r ProfileUpdateRequest) Patch() domain.Patch {
	p := domain.Patch{}
	domain.Put(p, "name", r.Name)
	domain.Put(p, "email", r.Email)
	domain.Put(p, "phone", r.Phone)
	return p
}

// PasswordChangeRequest payload for PUT /profile/password.
type PasswordChangeRequest struct {
	CurrentPassword      string `json:"current_password" validate:"required"`
	Password             string `json:"password" validate:"required,min=8,nefield=CurrentPassword"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

func (r PasswordChangeRequest) Change() repository.PasswordChange {
	return repository.PasswordChange{
		CurrentPassword:      r.CurrentPassword,
		Password:             r.Password,
		PasswordConfirmation: r.PasswordConfirmation,
	}
}
