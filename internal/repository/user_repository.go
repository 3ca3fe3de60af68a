package repository

import (
	"context"
	"net/http"

	"github.com/spec-kit/ferry-admin/internal/apiclient"
	"github.com/spec-kit/ferry-admin/internal/domain"
)

// UserQuery filters the user list.
type UserQuery struct {
	ListQuery
	Role    domain.Role
	Status  domain.UserStatus
	Trashed Trashed
}

// UserRepository defines access to /users.
type UserRepository interface {
	List(ctx context.Context, token string, q UserQuery) (*domain.Page[domain.User], error)
	Get(ctx context.Context, token string, id int64) (*domain.User, error)
	Create(ctx context.Context, token string, body domain.Patch) (*domain.Mutation[domain.User], error)
	Update(ctx context.Context, token string, id int64, body domain.Patch) (*domain.Mutation[domain.User], error)
	Delete(ctx context.Context, token string, id int64) (string, error)
	Restore(ctx context.Context, token string, id int64) (*domain.Mutation[domain.User], error)
	ForceDelete(ctx context.Context, token string, id int64, confirmation string) (string, error)
}

type userRepository struct {
	client *apiclient.Client
}

// NewUserRepository returns the REST implementation.
func NewUserRepository(client *apiclient.Client) UserRepository {
	return &userRepository{client: client}
}

func (r *userRepository) List(ctx context.Context, token string, q UserQuery) (*domain.Page[domain.User], error) {
	values := q.values()
	setIf(values, "role", string(q.Role))
	setIf(values, "status", string(q.Status))
	setIf(values, "trashed", string(q.Trashed))
	return list[domain.User](ctx, r.client, token, "/users", values)
}

func (r *userRepository) Get(ctx context.Context, token string, id int64) (*domain.User, error) {
	return get[domain.User](ctx, r.client, token, idPath("/users", id), nil)
}

func (r *userRepository) Create(ctx context.Context, token string, body domain.Patch) (*domain.Mutation[domain.User], error) {
	return mutate[domain.User](ctx, r.client, token, http.MethodPost, "/users", "user", body)
}

func (r *userRepository) Update(ctx context.Context, token string, id int64, body domain.Patch) (*domain.Mutation[domain.User], error) {
	return mutate[domain.User](ctx, r.client, token, http.MethodPut, idPath("/users", id), "user", body)
}

func (r *userRepository) Delete(ctx context.Context, token string, id int64) (string, error) {
	return message(ctx, r.client, token, http.MethodDelete, idPath("/users", id), nil)
}

func (r *userRepository) Restore(ctx context.Context, token string, id int64) (*domain.Mutation[domain.User], error) {
	return mutate[domain.User](ctx, r.client, token, http.MethodPost, idPath("/users", id, "restore"), "user", nil)
}

func (r *userRepository) ForceDelete(ctx context.Context, token string, id int64, confirmation string) (string, error) {
	return message(ctx, r.client, token, http.MethodDelete, idPath("/users", id, "force"), ForceDeleteRequest{Confirmation: confirmation})
}
