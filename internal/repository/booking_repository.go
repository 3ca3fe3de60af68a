package repository

import (
	"context"
	"net/http"

	"github.com/spec-kit/ferry-admin/internal/apiclient"
	"github.com/spec-kit/ferry-admin/internal/domain"
)

// BookingQuery filters the booking list.
type BookingQuery struct {
	ListQuery
	Status domain.BookingStatus
	Date   string
}

// BookingRepository defines access to /bookings.
type BookingRepository interface {
	List(ctx context.Context, token string, q BookingQuery) (*domain.Page[domain.Booking], error)
	Get(ctx context.Context, token string, id int64) (*domain.Booking, error)
	Create(ctx context.Context, token string, body domain.Patch) (*domain.Mutation[domain.Booking], error)
	Update(ctx context.Context, token string, id int64, body domain.Patch) (*domain.Mutation[domain.Booking], error)
	Delete(ctx context.Context, token string, id int64) (string, error)
}

type bookingRepository struct {
	client *apiclient.Client
}

// NewBookingRepository returns the REST implementation.
func NewBookingRepository(client *apiclient.Client) BookingRepository {
	return &bookingRepository{client: client}
}

func (r *bookingRepository) List(ctx context.Context, token string, q BookingQuery) (*domain.Page[domain.Booking], error) {
	values := q.values()
	setIf(values, "status", string(q.Status))
	setIf(values, "date", q.Date)
	return list[domain.Booking](ctx, r.client, token, "/bookings", values)
}

func (r *bookingRepository) Get(ctx context.Context, token string, id int64) (*domain.Booking, error) {
	return get[domain.Booking](ctx, r.client, token, idPath("/bookings", id), nil)
}

func (r *bookingRepository) Create(ctx context.Context, token string, body domain.Patch) (*domain.Mutation[domain.Booking], error) {
	return mutate[domain.Booking](ctx, r.client, token, http.MethodPost, "/bookings", "booking", body)
}

func (r *bookingRepository) Update(ctx context.Context, token string, id int64, body domain.Patch) (*domain.Mutation[domain.Booking], error) {
	return mutate[domain.Booking](ctx, r.client, token, http.MethodPut, idPath("/bookings", id), "booking", body)
}

func (r *bookingRepository) Delete(ctx context.Context, token string, id int64) (string, error) {
	return message(ctx, r.client, token, http.MethodDelete, idPath("/bookings", id), nil)
}
