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

// VesselsHandler manages the fleet pages.
type VesselsHandler struct {
	deps    Deps
	repo    repository.VesselRepository
	archive *service.ArchiveService[domain.Vessel]
}

// NewVesselsHandler constructs handler.
func NewVesselsHandler(deps Deps, repo repository.VesselRepository) *VesselsHandler {
	deps = deps.withDefaults()
	return &VesselsHandler{
		deps: deps,
		repo: repo,
		archive: service.NewArchiveService(service.ArchiveDependencies[domain.Vessel]{
			Repo:      repo,
			Resource:  events.ResourceVessels,
			NameOf:    func(v *domain.Vessel) string { return v.Name },
			StateOf:   (*domain.Vessel).Lifecycle,
			Publisher: deps.Publisher,
		}),
	}
}

// List GET /vessels.
func (h *VesselsHandler) List(c *fiber.Ctx) error {
	trashed, err := trashedParam(c)
	if err != nil {
		return err
	}
	q := repository.VesselQuery{
		ListQuery: listQuery(c),
		Type:      domain.VesselType(c.Query("type")),
		Status:    domain.VesselStatus(c.Query("status")),
		Trashed:   trashed,
	}
	return listPage(c, h.deps, events.ResourceVessels, "list", func(ctx context.Context, token string) (*domain.Page[domain.Vessel], error) {
		return h.repo.List(ctx, token, q)
	})
}

// Get GET /vessels/:id.
func (h *VesselsHandler) Get(c *fiber.Ctx) error {
	_, snap, err := sessionOf(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}
	vessel, err := h.repo.Get(c.UserContext(), snap.Token, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data":      vessel,
		"lifecycle": vessel.Lifecycle(),
	})
}

// Create POST /vessels.
func (h *VesselsHandler) Create(c *fiber.Ctx) error {
	_, snap, err := sessionOf(c)
	if err != nil {
		return err
	}
	var req dto.VesselCreateRequest
	if err := parseBody(c, h.deps.Validator, &req); err != nil {
		return err
	}
	result, err := h.repo.Create(c.UserContext(), snap.Token, req.Patch())
	if err != nil {
		return err
	}
	h.deps.Publisher.Mutated(c.UserContext(), snap, events.ResourceVessels, service.ActionCreate, createdID(result, func(v *domain.Vessel) int64 { return v.ID }))
	return mutationResponse(c, http.StatusCreated, result)
}

// Update PUT /vessels/:id.
func (h *VesselsHandler) Update(c *fiber.Ctx) error {
	_, snap, err := sessionOf(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req dto.VesselUpdateRequest
	if err := parseBody(c, h.deps.Validator, &req); err != nil {
		return err
	}
	result, err := h.repo.Update(c.UserContext(), snap.Token, id, req.Patch())
	if err != nil {
		return err
	}
	h.deps.Publisher.Mutated(c.UserContext(), snap, events.ResourceVessels, service.ActionUpdate, id)
	return mutationResponse(c, http.StatusOK, result)
}

// Delete DELETE /vessels/:id archives the vessel. Its status is untouched.
func (h *VesselsHandler) Delete(c *fiber.Ctx) error {
	_, snap, err := sessionOf(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}
	msg, err := h.archive.Archive(c.UserContext(), snap, id)
	if err != nil {
		return err
	}
	return messageResponse(c, msg)
}

// Restore POST /vessels/:id/restore.
func (h *VesselsHandler) Restore(c *fiber.Ctx) error {
	_, snap, err := sessionOf(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}
	result, err := h.archive.Restore(c.UserContext(), snap, id)
	if err != nil {
		return err
	}
	return mutationResponse(c, http.StatusOK, result)
}

// ForceDelete DELETE /vessels/:id/force.
func (h *VesselsHandler) ForceDelete(c *fiber.Ctx) error {
	_, snap, err := sessionOf(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req dto.ForceDeleteRequest
	if err := parseBody(c, h.deps.Validator, &req); err != nil {
		return err
	}
	msg, err := h.archive.ForceDelete(c.UserContext(), snap, id, req.Confirmation)
	if err != nil {
		return err
	}
	return messageResponse(c, msg)
}

// UploadImage POST /vessels/:id/image.
func (h *VesselsHandler) UploadImage(c *fiber.Ctx) error {
	_, snap, err := sessionOf(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}
	file, closeFile, err := formFile(c, "image")
	if err != nil {
		return err
	}
	defer closeFile()

	result, err := h.repo.UploadImage(c.UserContext(), snap.Token, id, file)
	if err != nil {
		return err
	}
	h.deps.Publisher.Mutated(c.UserContext(), snap, events.ResourceVessels, service.ActionUpload, id)
	return mutationResponse(c, http.StatusOK, result)
}

// Availability GET /vessels/:id/availability?date=YYYY-MM-DD.
func (h *VesselsHandler) Availability(c *fiber.Ctx) error {
	_, snap, err := sessionOf(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}
	date := c.Query("date")
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return apperrors.NewValidationError("the given data was invalid", map[string]string{
			"date": "The date must be a valid date in the format 2006-01-02.",
		})
	}
	availability, err := h.repo.Availability(c.UserContext(), snap.Token, id, date)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": availability})
}
