package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ferry-admin/internal/api/dto"
	"github.com/spec-kit/ferry-admin/internal/domain"
	"github.com/spec-kit/ferry-admin/internal/events"
	"github.com/spec-kit/ferry-admin/internal/repository"
	"github.com/spec-kit/ferry-admin/internal/service"
	apperrors "github.com/spec-kit/ferry-admin/pkg/util"
)

// BookingsHandler manages reservations for the booking desk.
type BookingsHandler struct {
	deps Deps
	repo repository.BookingRepository
}

// NewBookingsHandler constructs handler.
func NewBookingsHandler(deps Deps, repo repository.BookingRepository) *BookingsHandler {
	return &BookingsHandler{deps: deps.withDefaults(), repo: repo}
}

// List GET /bookings.
func (h *BookingsHandler) List(c *fiber.Ctx) error {
	date := c.Query("date")
	if date != "" {
		if _, err := time.Parse(time.DateOnly, date); err != nil {
			return apperrors.NewValidationError("the given data was invalid", map[string]string{
				"date": "The date must be a valid date in the format 2006-01-02.",
			})
		}
	}
	q := repository.BookingQuery{
		ListQuery: listQuery(c),
		Status:    domain.BookingStatus(c.Query("status")),
		Date:      date,
	}
	return listPage(c, h.deps, events.ResourceBookings, "list", func(ctx context.Context, token string) (*domain.Page[domain.Booking], error) {
		return h.repo.List(ctx, token, q)
	})
}

// Get GET /bookings/:id.
func (h *BookingsHandler) Get(c *fiber.Ctx) error {
	_, snap, err := sessionOf(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}
	booking, err := h.repo.Get(c.UserContext(), snap.Token, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": booking})
}

// Create POST /bookings.
func (h *BookingsHandler) Create(c *fiber.Ctx) error {
	_, snap, err := sessionOf(c)
	if err != nil {
		return err
	}
	var req dto.BookingCreateRequest
	if err := parseBody(c, h.deps.Validator, &req); err != nil {
		return err
	}
	result, err := h.repo.Create(c.UserContext(), snap.Token, req.Patch())
	if err != nil {
		return err
	}
	h.deps.Publisher.Mutated(c.UserContext(), snap, events.ResourceBookings, service.ActionCreate, createdID(result, func(b *domain.Booking) int64 { return b.ID }))
	return mutationResponse(c, http.StatusCreated, result)
}

// Update PUT /bookings/:id.
func (h *BookingsHandler) Update(c *fiber.Ctx) error {
	_, snap, err := sessionOf(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req dto.BookingUpdateRequest
	if err := parseBody(c, h.deps.Validator, &req); err != nil {
		return err
	}
	result, err := h.repo.Update(c.UserContext(), snap.Token, id, req.Patch())
	if err != nil {
		return err
	}
	h.deps.Publisher.Mutated(c.UserContext(), snap, events.ResourceBookings, service.ActionUpdate, id)
	return mutationResponse(c, http.StatusOK, result)
}

// Delete DELETE /bookings/:id.
func (h *BookingsHandler) Delete(c *fiber.Ctx) error {
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
	h.deps.Publisher.Mutated(c.UserContext(), snap, events.ResourceBookings, service.ActionDelete, id)
	return messageResponse(c, msg)
}
