package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/accounts-service/internal/api/http/handlers"
	"github.com/spec-kit/accounts-service/internal/auth"
	"github.com/spec-kit/accounts-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	APIPrefix      string
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group(cfg.APIPrefix)

	authGroup := api.Group("/auth")
	authGroup.Post("/signup", cfg.Auth.Signup)
	authGroup.Post("/signin", cfg.Auth.Signin)
	authGroup.Post("/password/forgot", cfg.Auth.ForgotPassword)
	authGroup.Post("/password/change", cfg.AuthMiddleware.Handle, auth.RequireRoles(), cfg.Auth.ChangePassword)

	users := api.Group("/users", cfg.AuthMiddleware.Handle)
	users.Get("/me", auth.RequireRoles(), cfg.Users.Me)

	admin := auth.RequireRoles(domain.RoleAdmin, domain.RoleSuperAdmin)
	users.Get("/", admin, cfg.Users.List)
	users.Get("/:id", admin, cfg.Users.GetByID)
	users.Patch("/:id", admin, cfg.Users.Update)
	users.Delete("/:id", admin, cfg.Users.Delete)
}
