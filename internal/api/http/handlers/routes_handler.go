package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ferry-admin/internal/api/dto"
	"github.com/spec-kit/ferry-admin/internal/domain"
	"github.com/spec-kit/ferry-admin/internal/events"
	"github.com/spec-kit/ferry-admin/internal/repository"
	"github.com/spec-kit/ferry-admin/internal/service"
)

// RoutesHandler manages sailing routes.
type RoutesHandler struct {
	deps Deps
	repo repository.RouteRepository
}

// NewRoutesHandler constructs handler.
func NewRoutesHandler(deps Deps, repo repository.RouteRepository) *RoutesHandler {
	return &RoutesHandler{deps: deps.withDefaults(), repo: repo}
}

// List GET /routes.
func (h *RoutesHandler) List(c *fiber.Ctx) error {
	q := repository.RouteQuery{
		ListQuery: listQuery(c),
		VesselID:  int64(c.QueryInt("vessel_id", 0)),
		Status:    domain.RouteStatus(c.Query("status")),
	}
	return listPage(c, h.deps, events.ResourceRoutes, "list", func(ctx context.Context, token string) (*domain.Page[domain.Route], error) {
		return h.repo.List(ctx, token, q)
	})
}

// Get GET /routes/:id.
func (h *RoutesHandler) Get(c *fiber.Ctx) error {
	_, snap, err := sessionOf(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}
	route, err := h.repo.Get(c.UserContext(), snap.Token, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": route})
}

// Create POST /routes.
func (h *RoutesHandler) Create(c *fiber.Ctx) error {
	_, snap, err := sessionOf(c)
	if err != nil {
		return err
	}
	var req dto.RouteCreateRequest
	if err := parseBody(c, h.deps.Validator, &req); err != nil {
		return err
	}
	result, err := h.repo.Create(c.UserContext(), snap.Token, req.Patch())
	if err != nil {
		return err
	}
	h.deps.Publisher.Mutated(c.UserContext(), snap, events.ResourceRoutes, service.ActionCreate, createdID(result, func(r *domain.Route) int64 { return r.ID }))
	return mutationResponse(c, http.StatusCreated, result)
}

// Update PUT /routes/:id.
func (h *RoutesHandler) Update(c *fiber.Ctx) error {
	_, snap, err := sessionOf(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req dto.RouteUpdateRequest
	if err := parseBody(c, h.deps.Validator, &req); err != nil {
		return err
	}
	result, err := h.repo.Update(c.UserContext(), snap.Token, id, req.Patch())
	if err != nil {
		return err
	}
	h.deps.Publisher.Mutated(c.UserContext(), snap, events.ResourceRoutes, service.ActionUpdate, id)
	return mutationResponse(c, http.StatusOK, result)
}

// Delete DELETE /routes/:id.
func (h *RoutesHandler) Delete(c *fiber.Ctx) error {
	_, snap, err := sessionOf(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}
	msg, err := h.repo.Delete(c.UserContext(), snap.Token, id)
	if err != nil {
		return err
	}
	h.deps.Publisher.Mutated(c.UserContext(), snap, events.ResourceRoutes, service.ActionDelete, id)
	return messageResponse(c, msg)
}
