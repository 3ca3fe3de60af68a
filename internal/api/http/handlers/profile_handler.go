package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ferry-admin/internal/api/dto"
	"github.com/spec-kit/ferry-admin/internal/events"
	"github.com/spec-kit/ferry-admin/internal/repository"
	"github.com/spec-kit/ferry-admin/internal/service"
)

// ProfileHandler lets the signed-in user edit their own account. Every
// successful edit refreshes the session user so the layout shows it.
type ProfileHandler struct {
	deps Deps
	repo repository.ProfileRepository
}

// NewProfileHandler constructs handler.
func NewProfileHandler(deps Deps, repo repository.ProfileRepository) *ProfileHandler {
	return &ProfileHandler{deps: deps.withDefaults(), repo: repo}
}

// Show GET /profile.
func (h *ProfileHandler) Show(c *fiber.Ctx) error {
	_, snap, err := sessionOf(c)
	if err != nil {
		return err
	}
	user, err := h.repo.Get(c.UserContext(), snap.Token)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": user})
}

// Update PUT /profile.
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	svc, snap, err := sessionOf(c)
	if err != nil {
		return err
	}
	var req dto.ProfileUpdateRequest
	if err := parseBody(c, h.deps.Validator, &req); err != nil {
		return err
	}
	result, err := h.repo.Update(c.UserContext(), snap.Token, req.Patch())
	if err != nil {
		return err
	}
	svc.RefetchUser(c.UserContext())
	h.deps.Publisher.Mutated(c.UserContext(), snap, events.ResourceProfile, service.ActionUpdate, snap.User.ID)
	return mutationResponse(c, http.StatusOK, result)
}

// UploadAvatar POST /profile/avatar.
func (h *ProfileHandler) UploadAvatar(c *fiber.Ctx) error {
	svc, snap, err := sessionOf(c)
	if err != nil {
		return err
	}
	file, closeFile, err := formFile(c, "avatar")
	if err != nil {
		return err
	}
	defer closeFile()

	result, err := h.repo.UploadAvatar(c.UserContext(), snap.Token, file)
	if err != nil {
		return err
	}
	svc.RefetchUser(c.UserContext())
	h.deps.Publisher.Mutated(c.UserContext(), snap, events.ResourceProfile, service.ActionUpload, snap.User.ID)
	return mutationResponse(c, http.StatusOK, result)
}

// ChangePassword PUT /profile/password.
func (h *ProfileHandler) ChangePassword(c *fiber.Ctx) error {
	_, snap, err := sessionOf(c)
	if err != nil {
		return err
	}
	var req dto.PasswordChangeRequest
	if err := parseBody(c, h.deps.Validator, &req); err != nil {
		return err
	}
	msg, err := h.repo.ChangePassword(c.UserContext(), snap.Token, req.Change())
	if err != nil {
		return err
	}
	return messageResponse(c, msg)
}
