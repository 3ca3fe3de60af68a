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
	apperrors "github.com/spec-kit/ferry-admin/pkg/util"
)

// UsersHandler manages the user list and user forms.
type UsersHandler struct {
	deps    Deps
	repo    repository.UserRepository
	archive *service.ArchiveService[domain.User]
}

// NewUsersHandler constructs handler.
func NewUsersHandler(deps Deps, repo repository.UserRepository) *UsersHandler {
	deps = deps.withDefaults()
	return &UsersHandler{
		deps: deps,
		repo: repo,
		archive: service.NewArchiveService(service.ArchiveDependencies[domain.User]{
			Repo:      repo,
			Resource:  events.ResourceUsers,
			NameOf:    (*domain.User).DisplayName,
			StateOf:   (*domain.User).Lifecycle,
			Publisher: deps.Publisher,
		}),
	}
}

// List GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	trashed, err := trashedParam(c)
	if err != nil {
		return err
	}
	role := domain.Role(c.Query("role"))
	if role != "" && !role.IsKnown() {
		return apperrors.NewValidationError("the given data was invalid", map[string]string{
			"role": "The selected role is invalid.",
		})
	}
	q := repository.UserQuery{
		ListQuery: listQuery(c),
		Role:      role,
		Status:    domain.UserStatus(c.Query("status")),
		Trashed:   trashed,
	}
	return listPage(c, h.deps, events.ResourceUsers, "list", func(ctx context.Context, token string) (*domain.Page[domain.User], error) {
		return h.repo.List(ctx, token, q)
	})
}

// Get GET /users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	_, snap, err := sessionOf(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}
	user, err := h.repo.Get(c.UserContext(), snap.Token, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data":      user,
		"lifecycle": user.Lifecycle(),
	})
}

// Create POST /users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	_, snap, err := sessionOf(c)
	if err != nil {
		return err
	}
	var req dto.UserCreateRequest
	if err := parseBody(c, h.deps.Validator, &req); err != nil {
		return err
	}
	result, err := h.repo.Create(c.UserContext(), snap.Token, req.Patch())
	if err != nil {
		return err
	}
	h.deps.Publisher.Mutated(c.UserContext(), snap, events.ResourceUsers, service.ActionCreate, createdID(result, func(u *domain.User) int64 { return u.ID }))
	return mutationResponse(c, http.StatusCreated, result)
}

// Update PUT /users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	_, snap, err := sessionOf(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req dto.UserUpdateRequest
	if err := parseBody(c, h.deps.Validator, &req); err != nil {
		return err
	}
	result, err := h.repo.Update(c.UserContext(), snap.Token, id, req.Patch())
	if err != nil {
		return err
	}
	h.deps.Publisher.Mutated(c.UserContext(), snap, events.ResourceUsers, service.ActionUpdate, id)
	return mutationResponse(c, http.StatusOK, result)
}

// Delete DELETE /users/:id archives the user.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
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

// Restore POST /users/:id/restore.
func (h *UsersHandler) Restore(c *fiber.Ctx) error {
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

// ForceDelete DELETE /users/:id/force.
func (h *UsersHandler) ForceDelete(c *fiber.Ctx) error {
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
