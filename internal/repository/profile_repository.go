package repository

import (
	"context"
	"net/http"

	"github.com/spec-kit/ferry-admin/internal/apiclient"
	"github.com/spec-kit/ferry-admin/internal/domain"
)

// PasswordChange is the payload of PUT /profile/password.
type PasswordChange struct {
	CurrentPassword      string `json:"current_password"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// ProfileRepository defines access to /profile.
type ProfileRepository interface {
	Get(ctx context.Context, token string) (*domain.User, error)
	Update(ctx context.Context, token string, body domain.Patch) (*domain.Mutation[domain.User], error)
	UploadAvatar(ctx context.Context, token string, file apiclient.File) (*domain.Mutation[domain.User], error)
	ChangePassword(ctx context.Context, token string, change PasswordChange) (string, error)
}

type profileRepository struct {
	client *apiclient.Client
}

// NewProfileRepository returns the REST implementation.
func NewProfileRepository(client *apiclient.Client) ProfileRepository {
	return &profileRepository{client: client}
}

func (r *profileRepository) Get(ctx context.Context, token string) (*domain.User, error) {
	return get[domain.User](ctx, r.client, token, "/profile", nil)
}

func (r *profileRepository) Update(ctx context.Context, token string, body domain.Patch) (*domain.Mutation[domain.User], error) {
	return mutate[domain.User](ctx, r.client, token, http.MethodPut, "/profile", "user", body)
}

func (r *profileRepository) UploadAvatar(ctx context.Context, token string, file apiclient.File) (*domain.Mutation[domain.User], error) {
	file.Field = "avatar"
	return upload[domain.User](ctx, r.client, token, "/profile/avatar", "user", file)
}

func (r *profileRepository) ChangePassword(ctx context.Context, token string, change PasswordChange) (string, error) {
	return message(ctx, r.client, token, http.MethodPut, "/profile/password", change)
}
