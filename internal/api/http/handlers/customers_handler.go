package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ferry-admin/internal/api/dto"
	"github.com/spec-kit/ferry-admin/internal/domain"
	"github.com/spec-kit/ferry-admin/internal/events"
	"github.com/spec-kit/ferry-admin/internal/repository"
	"github.com/spec-kit/ferry-admin/internal/service"
)

// CustomersHandler manages customer records and their booking history.
type CustomersHandler struct {
	deps Deps
	repo repository.CustomerRepository
}

// NewCustomersHandler constructs handler.
func NewCustomersHandler(deps Deps, repo repository.CustomerRepository) *CustomersHandler {
	return &CustomersHandler{deps: deps.withDefaults(), repo: repo}
}

// List GET /customers.
func (h *CustomersHandler) List(c *fiber.Ctx) error {
	q := repository.CustomerQuery{
		ListQuery: listQuery(c),
		Status:    domain.UserStatus(c.Query("status")),
	}
	return listPage(c, h.deps, events.ResourceCustomers, "list", func(ctx context.Context, token string) (*domain.Page[domain.Customer], error) {
		return h.repo.List(ctx, token, q)
	})
}

// Get GET /customers/:id.
func (h *CustomersHandler) Get(c *fiber.Ctx) error {
	_, snap, err := sessionOf(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}
	customer, err := h.repo.Get(c.UserContext(), snap.Token, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": customer})
}

// Create POST /customers.
func (h *CustomersHandler) Create(c *fiber.Ctx) error {
	_, snap, err := sessionOf(c)
	if err != nil {
		return err
	}
	var req dto.CustomerCreateRequest
	if err := parseBody(c, h.deps.Validator, &req); err != nil {
		return err
	}
	result, err := h.repo.Create(c.UserContext(), snap.Token, req.Patch())
	if err != nil {
		return err
	}
	h.deps.Publisher.Mutated(c.UserContext(), snap, events.ResourceCustomers, service.ActionCreate, createdID(result, func(cu *domain.Customer) int64 { return cu.ID }))
	return mutationResponse(c, http.StatusCreated, result)
}

// Update PUT /customers/:id.
func (h *CustomersHandler) Update(c *fiber.Ctx) error {
	_, snap, err := sessionOf(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req dto.CustomerUpdateRequest
	if err := parseBody(c, h.deps.Validator, &req); err != nil {
		return err
	}
	result, err := h.repo.Update(c.UserContext(), snap.Token, id, req.Patch())
	if err != nil {
		return err
	}
	h.deps.Publisher.Mutated(c.UserContext(), snap, events.ResourceCustomers, service.ActionUpdate, id)
	return mutationResponse(c, http.StatusOK, result)
}

// Delete DELETE /customers/:id.
func (h *CustomersHandler) Delete(c *fiber.Ctx) error {
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
	h.deps.Publisher.Mutated(c.UserContext(), snap, events.ResourceCustomers, service.ActionDelete, id)
	return messageResponse(c, msg)
}

// Bookings GET /customers/:id/bookings. Booking writes invalidate customers,
// so the history refreshes with them.
func (h *CustomersHandler) Bookings(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	q := listQuery(c)
	view := "bookings:" + strconv.FormatInt(id, 10)
	return listPage(c, h.deps, events.ResourceCustomers, view, func(ctx context.Context, token string) (*domain.Page[domain.Booking], error) {
		return h.repo.Bookings(ctx, token, id, q)
	})
}
