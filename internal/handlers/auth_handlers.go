package handlers

import (
	"errors"

	"github.com/fathima-sithara/taskhub/internal/services"
	"github.com/fathima-sithara/taskhub/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	auth       services.AuthService
	workspaces services.WorkspaceService
	validate   *validator.Validate
}

func NewHandler(auth services.AuthService, workspaces services.WorkspaceService) *Handler {
	return &Handler{
		auth:       auth,
		workspaces: workspaces,
		validate:   utils.NewValidator(),
	}
}

// parseAndValidate decodes the body into req and validates it. When it
// returns false the 400 response has already been written.
func (h *Handler) parseAndValidate(c *fiber.Ctx, req interface{}) (bool, error) {
	if err := c.BodyParser(req); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "validation failed",
			"errors":  utils.FormatValidationErrors(err),
		})
	}
	return true, nil
}

type registerReq struct {
	Name     string `json:"name" validate:"required,min=1"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerReq
	if ok, err := h.parseAndValidate(c, &req); !ok {
		return err
	}

	err := h.auth.Register(c.Context(), req.Name, req.Email, req.Password)
	switch {
	case err == nil:
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "Verification email sent successfully. Please check your inbox.",
		})
	case errors.Is(err, services.ErrUserExists):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "User already exists"})
	case errors.Is(err, services.ErrDispatchFailed):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to send verification email"})
	default:
		return err
	}
}

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginReq
	if ok, err := h.parseAndValidate(c, &req); !ok {
		return err
	}

	tok, user, err := h.auth.Login(c.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Login Successful",
			"token":   tok,
			"user":    user,
		})
	case errors.Is(err, services.ErrInvalidCredentials):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid Email or Password"})
	case errors.Is(err, services.ErrEmailNotVerified):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Email not verified. Please check your inbox for verification link",
		})
	case errors.Is(err, services.ErrVerificationResent):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "A new verification email has been sent. Please check your inbox.",
		})
	case errors.Is(err, services.ErrDispatchFailed):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to send verification email"})
	default:
		return err
	}
}

type verifyEmailReq struct {
	Token string `json:"token" validate:"required"`
}

func (h *Handler) VerifyEmail(c *fiber.Ctx) error {
	var req verifyEmailReq
	if ok, err := h.parseAndValidate(c, &req); !ok {
		return err
	}

	err := h.auth.VerifyEmail(c.Context(), req.Token)
	switch {
	case err == nil:
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Email Verification Successful"})
	case errors.Is(err, services.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthorized"})
	case errors.Is(err, services.ErrTokenExpired):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Token expired"})
	case errors.Is(err, services.ErrAlreadyVerified):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Email Already Verified"})
	default:
		return err
	}
}

type resetRequestReq struct {
	Email string `json:"email" validate:"required,email"`
}

func (h *Handler) RequestPasswordReset(c *fiber.Ctx) error {
	var req resetRequestReq
	if ok, err := h.parseAndValidate(c, &req); !ok {
		return err
	}

	err := h.auth.RequestPasswordReset(c.Context(), req.Email)
	switch {
	case err == nil:
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Reset password email sent successfully. Please check your inbox.",
		})
	case errors.Is(err, services.ErrUserNotFound):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "User not found"})
	case errors.Is(err, services.ErrEmailNotVerified):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Please verify your email first"})
	case errors.Is(err, services.ErrResetAlreadySent):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Reset password request already sent"})
	case errors.Is(err, services.ErrDispatchFailed):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to send reset-password email"})
	default:
		return err
	}
}

type resetPasswordReq struct {
	Token           string `json:"token" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,min=8"`
}

func (h *Handler) CompletePasswordReset(c *fiber.Ctx) error {
	var req resetPasswordReq
	if ok, err := h.parseAndValidate(c, &req); !ok {
		return err
	}

	err := h.auth.CompletePasswordReset(c.Context(), req.Token, req.NewPassword, req.ConfirmPassword)
	switch {
	case err == nil:
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Password reset successfully"})
	case errors.Is(err, services.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthorized"})
	case errors.Is(err, services.ErrTokenExpired):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Token expired"})
	case errors.Is(err, services.ErrPasswordMismatch):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Passwords do not match"})
	default:
		return err
	}
}
