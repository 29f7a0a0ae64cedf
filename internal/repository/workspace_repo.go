package repository

import (
	"context"
	"errors"
	"time"

	"github.com/fathima-sithara/taskhub/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type WorkspaceRepository interface {
	Create(ctx context.Context, w *models.Workspace) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Workspace, error)
	ListByMember(ctx context.Context, userID primitive.ObjectID) ([]models.Workspace, error)
	AddProject(ctx context.Context, workspaceID, projectID primitive.ObjectID) error
}

type mongoWorkspaceRepo struct {
	col *mongo.Collection
}

func NewMongoWorkspaceRepo(db *mongo.Database) WorkspaceRepository {
	return &mongoWorkspaceRepo{col: db.Collection("workspaces")}
}

func (r *mongoWorkspaceRepo) Create(ctx context.Context, w *models.Workspace) error {
	now := time.Now().UTC()
	w.CreatedAt = now
	w.UpdatedAt = now
	if w.Projects == nil {
		w.Projects = []primitive.ObjectID{}
	}
	res, err := r.col.InsertOne(ctx, w)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		w.ID = id
	}
	return nil
}

func (r *mongoWorkspaceRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Workspace, error) {
	var w models.Workspace
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&w)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *mongoWorkspaceRepo) ListByMember(ctx context.Context, userID primitive.ObjectID) ([]models.Workspace, error) {
	cur, err := r.col.Find(ctx, bson.M{"members.user": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Workspace
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *mongoWorkspaceRepo) AddProject(ctx context.Context, workspaceID, projectID primitive.ObjectID) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": workspaceID},
		bson.M{
			"$push": bson.M{"projects": projectID},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
