package middleware

import (
	"strings"

	"github.com/fathima-sithara/taskhub/internal/models"
	"github.com/fathima-sithara/taskhub/internal/services"
	"github.com/gofiber/fiber/v2"
)

const userLocalKey = "user"

// RequireAuth decodes the bearer token, loads the user and fails the whole
// request with 401 if either step does not hold up.
func RequireAuth(auth services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authentication token is required",
			})
		}
		tokenStr := strings.TrimPrefix(header, "Bearer ")

		user, err := auth.Authenticate(c.Context(), tokenStr)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid authentication token",
			})
		}

		c.Locals(userLocalKey, user)
		return c.Next()
	}
}

// UserFromCtx returns the authenticated user stored by RequireAuth.
func UserFromCtx(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userLocalKey).(*models.User)
	return user
}
