package repository

import (
	"context"
	"net/http"

	"github.com/spec-kit/ferry-admin/internal/apiclient"
	"github.com/spec-kit/ferry-admin/internal/domain"
)

// CustomerQuery filters the customer list.
type CustomerQuery struct {
	ListQuery
	Status domain.UserStatus
}

// CustomerRepository defines access to /customers.
type CustomerRepository interface {
	List(ctx context.Context, token string, q CustomerQuery) (*domain.Page[domain.Customer], error)
	Get(ctx context.Context, token string, id int64) (*domain.Customer, error)
	Create(ctx context.Context, token string, body domain.Patch) (*domain.Mutation[domain.Customer], error)
	Update(ctx context.Context, token string, id int64, body domain.Patch) (*domain.Mutation[domain.Customer], error)
	Delete(ctx context.Context, token string, id int64) (string, error)
	Bookings(ctx context.Context, token string, id int64, q ListQuery) (*domain.Page[domain.Booking], error)
}

type customerRepository struct {
	client *apiclient.Client
}

// NewCustomerRepository returns the REST implementation.
func NewCustomerRepository(client *apiclient.Client) CustomerRepository {
	return &customerRepository{client: client}
}

func (r *customerRepository) List(ctx context.Context, token string, q CustomerQuery) (*domain.Page[domain.Customer], error) {
	values := q.values()
	setIf(values, "status", string(q.Status))
	return list[domain.Customer](ctx, r.client, token, "/customers", values)
}

func (r *customerRepository) Get(ctx context.Context, token string, id int64) (*domain.Customer, error) {
	return get[domain.Customer](ctx, r.client, token, idPath("/customers", id), nil)
}

func (r *customerRepository) Create(ctx context.Context, token string, body domain.Patch) (*domain.Mutation[domain.Customer], error) {
	return mutate[domain.Customer](ctx, r.client, token, http.MethodPost, "/customers", "customer", body)
}

func (r *customerRepository) Update(ctx context.Context, token string, id int64, body domain.Patch) (*domain.Mutation[domain.Customer], error) {
	return mutate[domain.Customer](ctx, r.client, token, http.MethodPut, idPath("/customers", id), "customer", body)
}

func (r *customerRepository) Delete(ctx context.Context, token string, id int64) (string, error) {
	return message(ctx, r.client, token, http.MethodDelete, idPath("/customers", id), nil)
}

func (r *customerRepository) Bookings(ctx context.Context, token string, id int64, q ListQuery) (*domain.Page[domain.Booking], error) {
	return list[domain.Booking](ctx, r.client, token, idPath("/customers", id, "bookings"), q.values())
}
