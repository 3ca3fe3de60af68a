package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ferry-admin/internal/events"
	"github.com/spec-kit/ferry-admin/internal/service"
	"github.com/spec-kit/ferry-admin/internal/viewstate"
	apperrors "github.com/spec-kit/ferry-admin/pkg/util"
)

var revenuePeriods = map[string]bool{"daily": true, "weekly": true, "monthly": true, "yearly": true}

// DashboardHandler serves the dashboard page.
type DashboardHandler struct {
	deps      Deps
	dashboard *service.DashboardService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(deps Deps, dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{deps: deps.withDefaults(), dashboard: dashboard}
}

// Show handles GET /dashboard.
func (h *DashboardHandler) Show(c *fiber.Ctx) error {
	_, snap, err := sessionOf(c)
	if err != nil {
		return err
	}
	opts := service.DashboardOptions{
		RecentLimit:   c.QueryInt("recent", 0),
		PopularLimit:  c.QueryInt("popular", 0),
		RevenuePeriod: c.Query("period"),
		TrendDays:     c.QueryInt("days", 0),
	}
	if opts.RevenuePeriod != "" && !revenuePeriods[opts.RevenuePeriod] {
		return apperrors.NewValidationError("the given data was invalid", map[string]string{
			"period": "The selected period is invalid.",
		})
	}

	result, err := viewstate.Load(c.UserContext(), h.deps.Cache, viewKey(c, snap, events.ResourceDashboard, "dashboard"), func(ctx context.Context) (*service.Dashboard, error) {
		return h.dashboard.Load(ctx, snap.Token, opts)
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data":       result.Value,
		"cached":     result.Cached,
		"superseded": result.Superseded,
	})
}
