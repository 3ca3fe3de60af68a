package dto

import (
	"github.com/spec-kit/ferry-admin/internal/domain"
	"github.com/spec-kit/ferry-admin/internal/repository"
)

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Remember bool   `json:"remember"`
}

// Credentials converts the form to the backend payload.
func (r LoginRequest) Credentials() repository.Credentials {
	return repository.Credentials{Email: r.Email, Password: r.Password, Remember: r.Remember}
}

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Name                 string `json:"name" validate:"required,max=255"`
	Email                string `json:"email" validate:"required,email,max=255"`
	Phone                string `json:"phone" validate:"omitempty,max=32"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

// Registration converts the form to the backend payload.
func (r RegisterRequest) Registration() repository.Registration {
	return repository.Registration{
		Name:                 r.Name,
		Email:                r.Email,
		Phone:                r.Phone,
		Password:             r.Password,
		PasswordConfirmation: r.PasswordConfirmation,
	}
}

// SessionResponse describes the browser session to the front end.
type SessionResponse struct {
	Status        string            `json:"status"`
	Authenticated bool              `json:"authenticated"`
	User          *domain.User      `json:"user,omitempty"`
	Navigation    interface{}       `json:"navigation,omitempty"`
	Redirect      string            `json:"redirect,omitempty"`
	Meta          map[string]string `json:"meta,omitempty"`
}

// ForceDeleteRequest carries the typed confirmation phrase.
type ForceDeleteRequest struct {
	Confirmation string `json:"confirmation" validate:"required"`
}
