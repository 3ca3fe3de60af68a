package repository

import (
	"context"
	"net/url"
	"strconv"

	"github.com/spec-kit/ferry-admin/internal/apiclient"
	"github.com/spec-kit/ferry-admin/internal/domain"
)

// DashboardRepository defines access to /dashboard/*.
type DashboardRepository interface {
	Stats(ctx context.Context, token string) (*domain.DashboardStats, error)
	RecentBookings(ctx context.Context, token string, limit int) ([]domain.Booking, error)
	BookingsByType(ctx context.Context, token string) ([]domain.BookingsByType, error)
	Revenue(ctx context.Context, token string, period string) ([]domain.RevenuePoint, error)
	PopularRoutes(ctx context.Context, token string, limit int) ([]domain.PopularRoute, error)
	BookingTrends(ctx context.Context, token string, days int) ([]domain.TrendPoint, error)
}

type dashboardRepository struct {
	client *apiclient.Client
}

// NewDashboardRepository returns the REST implementation.
func NewDashboardRepository(client *apiclient.Client) DashboardRepository {
	return &dashboardRepository{client: client}
}

func (r *dashboardRepository) Stats(ctx context.Context, token string) (*domain.DashboardStats, error) {
	return get[domain.DashboardStats](ctx, r.client, token, "/dashboard/stats", nil)
}

func (r *dashboardRepository) RecentBookings(ctx context.Context, token string, limit int) ([]domain.Booking, error) {
	return series[domain.Booking](ctx, r.client, token, "/dashboard/bookings/recent", intQuery("limit", limit))
}

func (r *dashboardRepository) BookingsByType(ctx context.Context, token string) ([]domain.BookingsByType, error) {
	return series[domain.BookingsByType](ctx, r.client, token, "/dashboard/bookings/by-type", nil)
}

func (r *dashboardRepository) Revenue(ctx context.Context, token string, period string) ([]domain.RevenuePoint, error) {
	query := url.Values{}
	setIf(query, "period", period)
	return series[domain.RevenuePoint](ctx, r.client, token, "/dashboard/revenue", query)
}

func (r *dashboardRepository) PopularRoutes(ctx context.Context, token string, limit int) ([]domain.PopularRoute, error) {
	return series[domain.PopularRoute](ctx, r.client, token, "/dashboard/routes/popular", intQuery("limit", limit))
}

func (r *dashboardRepository) BookingTrends(ctx context.Context, token string, days int) ([]domain.TrendPoint, error) {
	return series[domain.TrendPoint](ctx, r.client, token, "/dashboard/bookings/trends", intQuery("days", days))
}

// series accepts either a bare array or `{data: [...]}`.
func series[T any](ctx context.Context, client *apiclient.Client, token, path string, query url.Values) ([]T, error) {
	items, err := get[[]T](ctx, client, token, path, query)
	if err != nil {
		return nil, err
	}
	if *items == nil {
		return []T{}, nil
	}
	return *items, nil
}

func intQuery(key string, value int) url.Values {
	if value <= 0 {
		return nil
	}
	return url.Values{key: {strconv.Itoa(value)}}
}
