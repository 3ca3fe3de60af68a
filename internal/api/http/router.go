package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/ferry-admin/internal/api/http/handlers"
	"github.com/spec-kit/ferry-admin/internal/auth"
	"github.com/spec-kit/ferry-admin/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health     *handlers.HealthHandler
	Auth       *handlers.AuthHandler
	Dashboard  *handlers.DashboardHandler
	Profile    *handlers.ProfileHandler
	Users      *handlers.UsersHandler
	Vessels    *handlers.VesselsHandler
	Routes     *handlers.RoutesHandler
	Bookings   *handlers.BookingsHandler
	Customers  *handlers.CustomersHandler
	Middleware *auth.Middleware
	// Metrics exposes /metrics when set.
	Metrics *observability.Metrics
}

// RegisterRoutes wires HTTP routes. Probes and metrics carry no session;
// every page route resolves the browser session before its guard runs.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Metrics.Registry(), promhttp.HandlerOpts{})))
	}

	mw := cfg.Middleware
	publicOnly := mw.Require(auth.PublicOnly())
	signedIn := mw.Require(auth.Authenticated())

	web := app.Group("", mw.Session)

	web.Get("/login", publicOnly, cfg.Auth.LoginView)
	web.Post("/login", publicOnly, cfg.Auth.Login)
	web.Get("/register", publicOnly, cfg.Auth.RegisterView)
	web.Post("/register", publicOnly, cfg.Auth.Register)
	web.Post("/logout", cfg.Auth.Logout)

	web.Get("/api/session", cfg.Auth.Session)
	web.Get("/api/navigation", signedIn, cfg.Auth.Navigation)

	web.Get("/dashboard", signedIn, cfg.Dashboard.Show)

	profile := web.Group("/profile", signedIn)
	profile.Get("/", cfg.Profile.Show)
	profile.Put("/", cfg.Profile.Update)
	profile.Post("/avatar", cfg.Profile.UploadAvatar)
	profile.Put("/password", cfg.Profile.ChangePassword)

	users := web.Group("/users", mw.Require(auth.RoleRestricted(auth.AdminRoles...)))
	users.Get("/", cfg.Users.List)
	users.Post("/", cfg.Users.Create)
	users.Get("/:id", cfg.Users.Get)
	users.Put("/:id", cfg.Users.Update)
	users.Delete("/:id", cfg.Users.Delete)
	users.Post("/:id/restore", cfg.Users.Restore)
	users.Delete("/:id/force", cfg.Users.ForceDelete)

	vessels := web.Group("/vessels", mw.Require(auth.RoleRestricted(auth.AdminRoles...)))
	vessels.Get("/", cfg.Vessels.List)
	vessels.Post("/", cfg.Vessels.Create)
	vessels.Get("/:id", cfg.Vessels.Get)
	vessels.Put("/:id", cfg.Vessels.Update)
	vessels.Delete("/:id", cfg.Vessels.Delete)
	vessels.Post("/:id/restore", cfg.Vessels.Restore)
	vessels.Delete("/:id/force", cfg.Vessels.ForceDelete)
	vessels.Post("/:id/image", cfg.Vessels.UploadImage)
	vessels.Get("/:id/availability", cfg.Vessels.Availability)

	routes := web.Group("/routes", mw.Require(auth.RoleRestricted(auth.AdminRoles...)))
	routes.Get("/", cfg.Routes.List)
	routes.Post("/", cfg.Routes.Create)
	routes.Get("/:id", cfg.Routes.Get)
	routes.Put("/:id", cfg.Routes.Update)
	routes.Delete("/:id", cfg.Routes.Delete)

	bookings := web.Group("/bookings", mw.Require(auth.RoleRestricted(auth.BookingDeskRoles...)))
	bookings.Get("/", cfg.Bookings.List)
	bookings.Post("/", cfg.Bookings.Create)
	bookings.Get("/:id", cfg.Bookings.Get)
	bookings.Put("/:id", cfg.Bookings.Update)
	bookings.Delete("/:id", cfg.Bookings.Delete)

	customers := web.Group("/customers", mw.Require(auth.RoleRestricted(auth.BookingDeskRoles...)))
	customers.Get("/", cfg.Customers.List)
	customers.Post("/", cfg.Customers.Create)
	customers.Get("/:id", cfg.Customers.Get)
	customers.Put("/:id", cfg.Customers.Update)
	customers.Delete("/:id", cfg.Customers.Delete)
	customers.Get("/:id/bookings", cfg.Customers.Bookings)
}
