package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fathima-sithara/taskhub/internal/models"
	"github.com/fathima-sithara/taskhub/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type workspaceService struct {
	workspaces repository.WorkspaceRepository
	projects   repository.ProjectRepository
}

func NewWorkspaceService(workspaces repository.WorkspaceRepository, projects repository.ProjectRepository) WorkspaceService {
	return &workspaceService{workspaces: workspaces, projects: projects}
}

func (s *workspaceService) CreateWorkspace(ctx context.Context, owner *models.User, name, description, color string) (*models.Workspace, error) {
	w := &models.Workspace{
		Name:        name,
		Description: description,
		Color:       color,
		Owner:       owner.ID,
		Members: []models.WorkspaceMember{{
			User:     owner.ID,
			Role:     models.RoleOwner,
			JoinedAt: time.Now().UTC(),
		}},
	}
	if err := s.workspaces.Create(ctx, w); err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}
	return w, nil
}

func (s *workspaceService) ListWorkspaces(ctx context.Context, user *models.User) ([]models.Workspace, error) {
	out, err := s.workspaces.ListByMember(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	return out, nil
}

func (s *workspaceService) CreateProject(ctx context.Context, user *models.User, workspaceID string, in CreateProjectInput) (*models.Project, error) {
	wsID, err := primitive.ObjectIDFromHex(workspaceID)
	if err != nil {
		return nil, ErrWorkspaceNotFound
	}

	ws, err := s.workspaces.FindByID(ctx, wsID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrWorkspaceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find workspace: %w", err)
	}
	if !ws.HasMember(user.ID) {
		return nil, ErrNotWorkspaceMember
	}

	var tags []string
	if in.Tags != "" {
		tags = strings.Split(in.Tags, ",")
	}

	p := &models.Project{
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		StartDate:   in.StartDate,
		DueDate:     in.DueDate,
		Tags:        tags,
		Workspace:   ws.ID,
		Members:     in.Members,
		CreatedBy:   user.ID,
	}
	if err := s.projects.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	if err := s.workspaces.AddProject(ctx, ws.ID, p.ID); err != nil {
		return nil, fmt.Errorf("failed to attach project to workspace: %w", err)
	}
	return p, nil
}
