package repository

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/spec-kit/ferry-admin/internal/apiclient"
	"github.com/spec-kit/ferry-admin/internal/domain"
)

// ErrIncompleteAuth is returned when the backend accepts credentials but
// omits the user or the token, which would break the session invariant.
var ErrIncompleteAuth = errors.New("backend auth response is missing user or token")

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Remember bool   `json:"remember,omitempty"`
}

// Registration is the sign-up payload.
type Registration struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Phone                string `json:"phone,omitempty"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// AuthResult is what login and register hand back.
type AuthResult struct {
	User  *domain.User
	Token string
}

// AuthRepository covers /login, /register, /logout and /user.
type AuthRepository interface {
	Login(ctx context.Context, creds Credentials) (*AuthResult, error)
	Register(ctx context.Context, reg Registration) (*AuthResult, error)
	Logout(ctx context.Context, token string) error
	Me(ctx context.Context, token string) (*domain.User, error)
}

type authRepository struct {
	client *apiclient.Client
}

// NewAuthRepository returns the REST implementation.
func NewAuthRepository(client *apiclient.Client) AuthRepository {
	return &authRepository{client: client}
}

type authResponse struct {
	Message     string       `json:"message"`
	User        *domain.User `json:"user"`
	Token       string       `json:"token"`
	AccessToken string       `json:"access_token"`
}

func (r *authRepository) Login(ctx context.Context, creds Credentials) (*AuthResult, error) {
	return r.authenticate(ctx, "/login", creds)
}

func (r *authRepository) Register(ctx context.Context, reg Registration) (*AuthResult, error) {
	return r.authenticate(ctx, "/register", reg)
}

func (r *authRepository) authenticate(ctx context.Context, path string, body any) (*AuthResult, error) {
	var resp authResponse
	if err := r.client.Send(ctx, "", http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}
	token := resp.Token
	if token == "" {
		token = resp.AccessToken
	}
	if resp.User == nil || token == "" {
		return nil, ErrIncompleteAuth
	}
	return &AuthResult{User: resp.User, Token: token}, nil
}

func (r *authRepository) Logout(ctx context.Context, token string) error {
	return r.client.Send(ctx, token, http.MethodPost, "/logout", nil, nil)
}

func (r *authRepository) Me(ctx context.Context, token string) (*domain.User, error) {
	var raw map[string]json.RawMessage
	if err := r.client.Get(ctx, token, "/user", nil, &raw); err != nil {
		return nil, err
	}
	for _, key := range []string{"data", "user"} {
		if inner, ok := raw[key]; ok {
			var user domain.User
			if err := json.Unmarshal(inner, &user); err != nil {
				return nil, err
			}
			return &user, nil
		}
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var user domain.User
	if err := json.Unmarshal(encoded, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
