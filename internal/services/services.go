package services

import (
	"context"
	"errors"

	"github.com/fathima-sithara/taskhub/internal/models"
)

// Expected failures of the auth flows. Handlers map these to HTTP statuses;
// anything else coming out of a service is treated as an internal error and
// never shown to the client.
var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrVerificationResent = errors.New("new verification email sent")
	ErrAlreadyVerified    = errors.New("email already verified")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrTokenExpired       = errors.New("token expired")
	ErrResetAlreadySent   = errors.New("reset password request already sent")
	ErrUserNotFound       = errors.New("user not found")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrDispatchFailed     = errors.New("failed to send email")
	ErrWorkspaceNotFound  = errors.New("workspace not found")
	ErrNotWorkspaceMember = errors.New("not a member of this workspace")
)

// AuthService orchestrates registration, login, email verification and the
// password reset flows.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) error
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	VerifyEmail(ctx context.Context, tokenStr string) error
	RequestPasswordReset(ctx context.Context, email string) error
	CompletePasswordReset(ctx context.Context, tokenStr, newPassword, confirmPassword string) error

	// Authenticate resolves a bearer token to its user. It is the one
	// interface the auth core exposes to the rest of the system.
	Authenticate(ctx context.Context, tokenStr string) (*models.User, error)
}

type CreateProjectInput struct {
	Title       string
	Description string
	Status      string
	StartDate   string
	DueDate     string
	Tags        string
	Members     []models.ProjectMember
}

type WorkspaceService interface {
	CreateWorkspace(ctx context.Context, owner *models.User, name, description, color string) (*models.Workspace, error)
	ListWorkspaces(ctx context.Context, user *models.User) ([]models.Workspace, error)
	CreateProject(ctx context.Context, user *models.User, workspaceID string, in CreateProjectInput) (*models.Project, error)
}
