package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/piiquante/sauce-service/internal/api/http/handlers"
	"github.com/piiquante/sauce-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Sauces         *handlers.SaucesHandler
	AuthMiddleware *auth.AuthMiddleware
	ImagesDir      string
	ImagesPath     string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	if cfg.ImagesDir != "" && cfg.ImagesPath != "" {
		app.Static(cfg.ImagesPath, cfg.ImagesDir)
	}

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/signup", cfg.Users.Signup)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Users.Me)

	sauces := api.Group("/sauces", cfg.AuthMiddleware.Handle)
	sauces.Get("/", cfg.Sauces.List)
	sauces.Post("/", cfg.Sauces.Create)
	sauces.Get("/:id", cfg.Sauces.Get)
	sauces.Put("/:id", cfg.Sauces.Update)
	sauces.Delete("/:id", cfg.Sauces.Delete)
	sauces.Post("/:id/like", cfg.Sauces.Like)
}
