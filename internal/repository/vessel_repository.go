package repository

import (
	"context"
	"net/http"
	"net/url"

	"github.com/spec-kit/ferry-admin/internal/apiclient"
	"github.com/spec-kit/ferry-admin/internal/domain"
)

// VesselQuery filters the vessel list.
type VesselQuery struct {
	ListQuery
	Type    domain.VesselType
	Status  domain.VesselStatus
	Trashed Trashed
}

// VesselRepository defines access to /vessels.
type VesselRepository interface {
	List(ctx context.Context, token string, q VesselQuery) (*domain.Page[domain.Vessel], error)
	Get(ctx context.Context, token string, id int64) (*domain.Vessel, error)
	Create(ctx context.Context, token string, body domain.Patch) (*domain.Mutation[domain.Vessel], error)
	Update(ctx context.Context, token string, id int64, body domain.Patch) (*domain.Mutation[domain.Vessel], error)
	Delete(ctx context.Context, token string, id int64) (string, error)
	Restore(ctx context.Context, token string, id int64) (*domain.Mutation[domain.Vessel], error)
	ForceDelete(ctx context.Context, token string, id int64, confirmation string) (string, error)
	UploadImage(ctx context.Context, token string, id int64, file apiclient.File) (*domain.Mutation[domain.Vessel], error)
	Availability(ctx context.Context, token string, id int64, date string) (*domain.Availability, error)
}

type vesselRepository struct {
	client *apiclient.Client
}

// NewVesselRepository returns the REST implementation.
func NewVesselRepository(client *apiclient.Client) VesselRepository {
	return &vesselRepository{client: client}
}

func (r *vesselRepository) List(ctx context.Context, token string, q VesselQuery) (*domain.Page[domain.Vessel], error) {
	values := q.values()
	setIf(values, "type", string(q.Type))
	setIf(values, "status", string(q.Status))
	setIf(values, "trashed", string(q.Trashed))
	return list[domain.Vessel](ctx, r.client, token, "/vessels", values)
}

func (r *vesselRepository) Get(ctx context.Context, token string, id int64) (*domain.Vessel, error) {
	return get[domain.Vessel](ctx, r.client, token, idPath("/vessels", id), nil)
}

func (r *vesselRepository) Create(ctx context.Context, token string, body domain.Patch) (*domain.Mutation[domain.Vessel], error) {
	return mutate[domain.Vessel](ctx, r.client, token, http.MethodPost, "/vessels", "vessel", body)
}

func (r *vesselRepository) Update(ctx context.Context, token string, id int64, body domain.Patch) (*domain.Mutation[domain.Vessel], error) {
	return mutate[domain.Vessel](ctx, r.client, token, http.MethodPut, idPath("/vessels", id), "vessel", body)
}

func (r *vesselRepository) Delete(ctx context.Context, token string, id int64) (string, error) {
	return message(ctx, r.client, token, http.MethodDelete, idPath("/vessels", id), nil)
}

func (r *vesselRepository) Restore(ctx context.Context, token string, id int64) (*domain.Mutation[domain.Vessel], error) {
	return mutate[domain.Vessel](ctx, r.client, token, http.MethodPost, idPath("/vessels", id, "restore"), "vessel", nil)
}

func (r *vesselRepository) ForceDelete(ctx context.Context, token string, id int64, confirmation string) (string, error) {
	return message(ctx, r.client, token, http.MethodDelete, idPath("/vessels", id, "force"), ForceDeleteRequest{Confirmation: confirmation})
}

func (r *vesselRepository) UploadImage(ctx context.Context, token string, id int64, file apiclient.File) (*domain.Mutation[domain.Vessel], error) {
	file.Field = "image"
	return upload[domain.Vessel](ctx, r.client, token, idPath("/vessels", id, "image"), "vessel", file)
}

func (r *vesselRepository) Availability(ctx context.Context, token string, id int64, date string) (*domain.Availability, error) {
	query := url.Values{}
	setIf(query, "date", date)
	return get[domain.Availability](ctx, r.client, token, idPath("/vessels", id, "availability"), query)
}
