package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/ferry-admin/internal/apiclient"
	"github.com/spec-kit/ferry-admin/internal/domain"
	"github.com/spec-kit/ferry-admin/internal/repository"
	apperrors "github.com/spec-kit/ferry-admin/pkg/util"
)

const dashboardWidgets = 6

// DashboardOptions sizes the dashboard widgets.
type DashboardOptions struct {
	RecentLimit   int
	PopularLimit  int
	RevenuePeriod string
	TrendDays     int
}

// Dashboard is the dashboard page view model. Widgets that failed to load
// are nil and listed in Errors.
type Dashboard struct {
	Stats          *domain.DashboardStats  `json:"stats"`
	RecentBookings []domain.Booking        `json:"recent_bookings"`
	BookingsByType []domain.BookingsByType `json:"bookings_by_type"`
	Revenue        []domain.RevenuePoint   `json:"revenue"`
	PopularRoutes  []domain.PopularRoute   `json:"popular_routes"`
	BookingTrends  []domain.TrendPoint     `json:"booking_trends"`
	Errors         map[string]string       `json:"errors,omitempty"`
}

// DashboardService assembles the dashboard from its widget endpoints.
type DashboardService struct {
	repo   repository.DashboardRepository
	logger *zap.Logger
}

// NewDashboardService builds the service.
func NewDashboardService(repo repository.DashboardRepository, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{repo: repo, logger: logger}
}

// Load fetches every widget concurrently. A rejected token fails the whole
// page; other widget failures are reported per widget.
func (s *DashboardService) Load(ctx context.Context, token string, opts DashboardOptions) (*Dashboard, error) {
	opts = opts.withDefaults()
	out := &Dashboard{}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs = map[string]error{}
	)
	run := func(widget string, fetch func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fetch(); err != nil {
				mu.Lock()
				errs[widget] = err
				mu.Unlock()
			}
		}()
	}

	run("stats", func() (err error) {
		out.Stats, err = s.repo.Stats(ctx, token)
		return err
	})
	run("recent_bookings", func() (err error) {
		out.RecentBookings, err = s.repo.RecentBookings(ctx, token, opts.RecentLimit)
		return err
	})
	run("bookings_by_type", func() (err error) {
		out.BookingsByType, err = s.repo.BookingsByType(ctx, token)
		return err
	})
	run("revenue", func() (err error) {
		out.Revenue, err = s.repo.Revenue(ctx, token, opts.RevenuePeriod)
		return err
	})
	run("popular_routes", func() (err error) {
		out.PopularRoutes, err = s.repo.PopularRoutes(ctx, token, opts.PopularLimit)
		return err
	})
	run("booking_trends", func() (err error) {
		out.BookingTrends, err = s.repo.BookingTrends(ctx, token, opts.TrendDays)
		return err
	})
	wg.Wait()

	if len(errs) == 0 {
		return out, nil
	}
	var last error
	out.Errors = make(map[string]string, len(errs))
	for widget, err := range errs {
		if apiclient.IsUnauthorized(err) {
			return nil, err
		}
		out.Errors[widget] = apperrors.ToDomainError(err).Message
		s.logger.Warn("dashboard widget failed", zap.String("widget", widget), zap.Error(err))
		last = err
	}
	if len(errs) == dashboardWidgets {
		return nil, last
	}
	return out, nil
}

func (o DashboardOptions) withDefaults() DashboardOptions {
	if o.RecentLimit <= 0 {
		o.RecentLimit = 5
	}
	if o.PopularLimit <= 0 {
		o.PopularLimit = 5
	}
	if o.RevenuePeriod == "" {
		o.RevenuePeriod = "monthly"
	}
	if o.TrendDays <= 0 {
		o.TrendDays = 30
	}
	return o
}
