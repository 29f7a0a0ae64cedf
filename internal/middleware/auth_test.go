package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fathima-sithara/taskhub/internal/models"
	"github.com/fathima-sithara/taskhub/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubAuth struct {
	user *models.User
	err  error

	gotToken string
}

func (s *stubAuth) Register(context.Context, string, string, string) error { return nil }

func (s *stubAuth) Login(context.Context, string, string) (string, *models.User, error) {
	return "", nil, nil
}

func (s *stubAuth) VerifyEmail(context.Context, string) error { return nil }

func (s *stubAuth) RequestPasswordReset(context.Context, string) error { return nil }

func (s *stubAuth) CompletePasswordReset(context.Context, string, string, string) error {
	return nil
}

func (s *stubAuth) Authenticate(_ context.Context, token string) (*models.User, error) {
	s.gotToken = token
	return s.user, s.err
}

func newProtectedApp(auth services.AuthService) *fiber.App {
	app := fiber.New()
	app.Get("/me", RequireAuth(auth), func(c *fiber.Ctx) error {
		user := UserFromCtx(c)
		return c.JSON(fiber.Map{"email": user.Email})
	})
	return app
}

func TestRequireAuth(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Email: "a@x.com", IsEmailVerified: true}

	t.Run("valid token passes user along", func(t *testing.T) {
		auth := &stubAuth{user: user}
		app := newProtectedApp(auth)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer good-token")
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "good-token", auth.gotToken)
	})

	t.Run("missing header rejected", func(t *testing.T) {
		app := newProtectedApp(&stubAuth{user: user})

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/me", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("non-bearer scheme rejected", func(t *testing.T) {
		app := newProtectedApp(&stubAuth{user: user})

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Basic abc123")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("rejected token never reaches handler", func(t *testing.T) {
		app := newProtectedApp(&stubAuth{err: services.ErrUnauthorized})

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer stale-token")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}
