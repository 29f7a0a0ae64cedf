package handlers

import (
	"errors"

	"github.com/fathima-sithara/taskhub/internal/middleware"
	"github.com/fathima-sithara/taskhub/internal/models"
	"github.com/fathima-sithara/taskhub/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func parseProjectMembers(in []projectMemberReq) ([]models.ProjectMember, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]models.ProjectMember, 0, len(in))
	for _, m := range in {
		id, err := primitive.ObjectIDFromHex(m.User)
		if err != nil {
			return nil, err
		}
		out = append(out, models.ProjectMember{User: id, Role: m.Role})
	}
	return out, nil
}

type createWorkspaceReq struct {
	Name        string `json:"name" validate:"required,min=1"`
	Description string `json:"description"`
	Color       string `json:"color" validate:"required,min=1"`
}

func (h *Handler) CreateWorkspace(c *fiber.Ctx) error {
	var req createWorkspaceReq
	if ok, err := h.parseAndValidate(c, &req); !ok {
		return err
	}

	user := middleware.UserFromCtx(c)
	ws, err := h.workspaces.CreateWorkspace(c.Context(), user, req.Name, req.Description, req.Color)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(ws)
}

func (h *Handler) ListWorkspaces(c *fiber.Ctx) error {
	user := middleware.UserFromCtx(c)
	out, err := h.workspaces.ListWorkspaces(c.Context(), user)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(out)
}

type projectMemberReq struct {
	User string `json:"user" validate:"required"`
	Role string `json:"role" validate:"required,oneof=manager contributor viewer"`
}

type createProjectReq struct {
	Title       string             `json:"title" validate:"required,min=3"`
	Description string             `json:"description"`
	Status      string             `json:"status" validate:"required,oneof='Planning' 'In Progress' 'On Hold' 'Completed' 'Cancelled'"`
	StartDate   string             `json:"startDate" validate:"required"`
	DueDate     string             `json:"dueDate" validate:"required"`
	Tags        string             `json:"tags"`
	Members     []projectMemberReq `json:"members" validate:"dive"`
}

func (h *Handler) CreateProject(c *fiber.Ctx) error {
	var req createProjectReq
	if ok, err := h.parseAndValidate(c, &req); !ok {
		return err
	}

	members, err := parseProjectMembers(req.Members)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid member id"})
	}

	user := middleware.UserFromCtx(c)
	p, err := h.workspaces.CreateProject(c.Context(), user, c.Params("workspaceId"), services.CreateProjectInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		StartDate:   req.StartDate,
		DueDate:     req.DueDate,
		Tags:        req.Tags,
		Members:     members,
	})
	switch {
	case err == nil:
		return c.Status(fiber.StatusCreated).JSON(p)
	case errors.Is(err, services.ErrWorkspaceNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Workspace not found"})
	case errors.Is(err, services.ErrNotWorkspaceMember):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "You are not a member of this workspace"})
	default:
		return err
	}
}
