package routes

import (
	"github.com/fathima-sithara/taskhub/internal/handlers"
	"github.com/fathima-sithara/taskhub/internal/middleware"
	"github.com/fathima-sithara/taskhub/internal/services"
	"github.com/gofiber/fiber/v2"
)

func Setup(app *fiber.App, h *handlers.Handler, auth services.AuthService, limiter *middleware.RateLimiter) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Welcome to TaskHub API"})
	})

	api := app.Group("/api-v1")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", limiter.Handler(), h.Register)
	authGroup.Post("/login", h.Login)
	authGroup.Post("/verify-email", h.VerifyEmail)
	authGroup.Post("/reset-password-request", limiter.Handler(), h.RequestPasswordReset)
	authGroup.Post("/reset-password", h.CompletePasswordReset)

	requireAuth := middleware.RequireAuth(auth)

	workspaces := api.Group("/workspaces", requireAuth)
	workspaces.Post("/", h.CreateWorkspace)
	workspaces.Get("/", h.ListWorkspaces)

	projects := api.Group("/projects", requireAuth)
	projects.Post("/:workspaceId/create-project", h.CreateProject)
}
