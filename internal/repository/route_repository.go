package repository

import (
	"context"
	"net/http"
	"strconv"

	"github.com/spec-kit/ferry-admin/internal/apiclient"
	"github.com/spec-kit/ferry-admin/internal/domain"
)

// RouteQuery filters the route list.
type RouteQuery struct {
	ListQuery
	VesselID int64
	Status   domain.RouteStatus
}

// RouteRepository defines access to /routes.
type RouteRepository interface {
	List(ctx context.Context, token string, q RouteQuery) (*domain.Page[domain.Route], error)
	Get(ctx context.Context, token string, id int64) (*domain.Route, error)
	Create(ctx context.Context, token string, body domain.Patch) (*domain.Mutation[domain.Route], error)
	Update(ctx context.Context, token string, id int64, body domain.Patch) (*domain.Mutation[domain.Route], error)
	Delete(ctx context.Context, token string, id int64) (string, error)
}

type routeRepository struct {
	client *apiclient.Client
}

// NewRouteRepository returns the REST implementation.
func NewRouteRepository(client *apiclient.Client) RouteRepository {
	return &routeRepository{client: client}
}

func (r *routeRepository) List(ctx context.Context, token string, q RouteQuery) (*domain.Page[domain.Route], error) {
	values := q.values()
	if q.VesselID > 0 {
		values.Set("vessel_id", strconv.FormatInt(q.VesselID, 10))
	}
	setIf(values, "status", string(q.Status))
	return list[domain.Route](ctx, r.client, token, "/routes", values)
}

func (r *routeRepository) Get(ctx context.Context, token string, id int64) (*domain.Route, error) {
	return get[domain.Route](ctx, r.client, token, idPath("/routes", id), nil)
}

func (r *routeRepository) Create(ctx context.Context, token string, body domain.Patch) (*domain.Mutation[domain.Route], error) {
	return mutate[domain.Route](ctx, r.client, token, http.MethodPost, "/routes", "route", body)
}

func (r *routeRepository) Update(ctx context.Context, token string, id int64, body domain.Patch) (*domain.Mutation[domain.Route], error) {
	return mutate[domain.Route](ctx, r.client, token, http.MethodPut, idPath("/routes", id), "route", body)
}

func (r *routeRepository) Delete(ctx context.Context, token string, id int64) (string, error) {
	return message(ctx, r.client, token, http.MethodDelete, idPath("/routes", id), nil)
}
