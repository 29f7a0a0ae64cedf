package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fathima-sithara/taskhub/internal/models"
	"github.com/fathima-sithara/taskhub/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeWorkspaceRepo struct {
	mu         sync.Mutex
	workspaces map[primitive.ObjectID]*models.Workspace
}

func newFakeWorkspaceRepo() *fakeWorkspaceRepo {
	return &fakeWorkspaceRepo{workspaces: make(map[primitive.ObjectID]*models.Workspace)}
}

func (r *fakeWorkspaceRepo) Create(_ context.Context, w *models.Workspace) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	w.CreatedAt = now
	w.UpdatedAt = now
	cp := *w
	r.workspaces[w.ID] = &cp
	return nil
}

func (r *fakeWorkspaceRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Workspace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.workspaces[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *w
	return &cp, nil
}

func (r *fakeWorkspaceRepo) ListByMember(_ context.Context, userID primitive.ObjectID) ([]models.Workspace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Workspace
	for _, w := range r.workspaces {
		if w.HasMember(userID) {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (r *fakeWorkspaceRepo) AddProject(_ context.Context, workspaceID, projectID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.workspaces[workspaceID]
	if !ok {
		return repository.ErrNotFound
	}
	w.Projects = append(w.Projects, projectID)
	return nil
}

type fakeProjectRepo struct {
	mu       sync.Mutex
	projects []*models.Project
}

func (r *fakeProjectRepo) Create(_ context.Context, p *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = primitive.NewObjectID()
	cp := *p
	r.projects = append(r.projects, &cp)
	return nil
}

func TestCreateWorkspace(t *testing.T) {
	t.Parallel()
	svc := NewWorkspaceService(newFakeWorkspaceRepo(), &fakeProjectRepo{})
	owner := &models.User{ID: primitive.NewObjectID(), Name: "A", Email: "a@x.com"}

	ws, err := svc.CreateWorkspace(context.Background(), owner, "Acme", "main workspace", "#FF5733")
	require.NoError(t, err)
	assert.Equal(t, owner.ID, ws.Owner)
	require.Len(t, ws.Members, 1)
	assert.Equal(t, models.RoleOwner, ws.Members[0].Role)
	assert.True(t, ws.HasMember(owner.ID))
}

func TestListWorkspaces_OnlyMemberOnes(t *testing.T) {
	t.Parallel()
	repo := newFakeWorkspaceRepo()
	svc := NewWorkspaceService(repo, &fakeProjectRepo{})
	ctx := context.Background()

	a := &models.User{ID: primitive.NewObjectID()}
	b := &models.User{ID: primitive.NewObjectID()}

	_, err := svc.CreateWorkspace(ctx, a, "A's", "", "#000")
	require.NoError(t, err)
	_, err = svc.CreateWorkspace(ctx, b, "B's", "", "#000")
	require.NoError(t, err)

	out, err := svc.ListWorkspaces(ctx, a)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "A's", out[0].Name)
}

func TestCreateProject(t *testing.T) {
	t.Parallel()
	wsRepo := newFakeWorkspaceRepo()
	projRepo := &fakeProjectRepo{}
	svc := NewWorkspaceService(wsRepo, projRepo)
	ctx := context.Background()

	owner := &models.User{ID: primitive.NewObjectID()}
	ws, err := svc.CreateWorkspace(ctx, owner, "Acme", "", "#000")
	require.NoError(t, err)

	p, err := svc.CreateProject(ctx, owner, ws.ID.Hex(), CreateProjectInput{
		Title:     "Launch",
		Status:    "Planning",
		StartDate: "2026-01-01",
		DueDate:   "2026-02-01",
		Tags:      "infra,urgent",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"infra", "urgent"}, p.Tags)
	assert.Equal(t, ws.ID, p.Workspace)

	got, err := wsRepo.FindByID(ctx, ws.ID)
	require.NoError(t, err)
	require.Len(t, got.Projects, 1)
	assert.Equal(t, p.ID, got.Projects[0])
}

func TestCreateProject_NotMember(t *testing.T) {
	t.Parallel()
	wsRepo := newFakeWorkspaceRepo()
	svc := NewWorkspaceService(wsRepo, &fakeProjectRepo{})
	ctx := context.Background()

	owner := &models.User{ID: primitive.NewObjectID()}
	outsider := &models.User{ID: primitive.NewObjectID()}
	ws, err := svc.CreateWorkspace(ctx, owner, "Acme", "", "#000")
	require.NoError(t, err)

	_, err = svc.CreateProject(ctx, outsider, ws.ID.Hex(), CreateProjectInput{
		Title: "Nope", Status: "Planning", StartDate: "2026-01-01", DueDate: "2026-02-01",
	})
	assert.ErrorIs(t, err, ErrNotWorkspaceMember)
}

func TestCreateProject_WorkspaceMissing(t *testing.T) {
	t.Parallel()
	svc := NewWorkspaceService(newFakeWorkspaceRepo(), &fakeProjectRepo{})
	user := &models.User{ID: primitive.NewObjectID()}

	_, err := svc.CreateProject(context.Background(), user, primitive.NewObjectID().Hex(), CreateProjectInput{
		Title: "X", Status: "Planning", StartDate: "2026-01-01", DueDate: "2026-02-01",
	})
	assert.ErrorIs(t, err, ErrWorkspaceNotFound)

	_, err = svc.CreateProject(context.Background(), user, "not-an-id", CreateProjectInput{})
	assert.ErrorIs(t, err, ErrWorkspaceNotFound)
}
