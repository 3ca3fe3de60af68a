package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ferry-admin/internal/api/dto"
	"github.com/spec-kit/ferry-admin/internal/auth"
	"github.com/spec-kit/ferry-admin/internal/session"
)

// AuthHandler serves sign in, registration and the session/navigation
// queries the layout needs.
type AuthHandler struct {
	deps       Deps
	navigation []auth.NavGroup
}

// NewAuthHandler constructs handler. A nil navigation uses the default menu.
func NewAuthHandler(deps Deps, navigation []auth.NavGroup) *AuthHandler {
	if navigation == nil {
		navigation = auth.DefaultNavigation()
	}
	return &AuthHandler{deps: deps.withDefaults(), navigation: navigation}
}

// LoginView handles GET /login.
func (h *AuthHandler) LoginView(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"page":   "login",
		"fields": []string{"email", "password", "remember"},
	})
}

// RegisterView handles GET /register.
func (h *AuthHandler) RegisterView(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"page":   "register",
		"fields": []string{"name", "email", "phone", "password", "password_confirmation"},
	})
}

// Login handles POST /login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, h.deps.Validator, &req); err != nil {
		return err
	}
	svc, err := auth.StartSession(c)
	if err != nil {
		return err
	}
	if _, err := svc.Login(c.UserContext(), req.Credentials()); err != nil {
		return err
	}
	return c.JSON(h.sessionResponse(svc.Snapshot(), auth.HomePath))
}

// Register handles POST /register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := parseBody(c, h.deps.Validator, &req); err != nil {
		return err
	}
	svc, err := auth.StartSession(c)
	if err != nil {
		return err
	}
	if _, err := svc.Register(c.UserContext(), req.Registration()); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(h.sessionResponse(svc.Snapshot(), auth.HomePath))
}

// Logout handles POST /logout. It always succeeds.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	svc, _, err := sessionOf(c)
	if err != nil {
		return err
	}
	svc.Logout(c.UserContext())
	return c.JSON(h.sessionResponse(svc.Snapshot(), auth.LoginPath))
}

// Session handles GET /api/session.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	_, snap, err := sessionOf(c)
	if err != nil {
		return err
	}
	return c.JSON(h.sessionResponse(snap, ""))
}

// Navigation handles GET /api/navigation.
func (h *AuthHandler) Navigation(c *fiber.Ctx) error {
	_, snap, err := sessionOf(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": auth.FilterNavigation(h.navigation, snap.Role())})
}

func (h *AuthHandler) sessionResponse(snap session.Snapshot, redirect string) dto.SessionResponse {
	resp := dto.SessionResponse{
		Status:        snap.Status.String(),
		Authenticated: snap.IsAuthenticated(),
		Redirect:      redirect,
	}
	if resp.Authenticated {
		resp.User = snap.User
		resp.Navigation = auth.FilterNavigation(h.navigation, snap.Role())
	}
	return resp
}
