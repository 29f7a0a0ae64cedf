package repository

import (
	"context"
	"time"

	"github.com/fathima-sithara/taskhub/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type ProjectRepository interface {
	Create(ctx context.Context, p *models.Project) error
}

type mongoProjectRepo struct {
	col *mongo.Collection
}

func NewMongoProjectRepo(db *mongo.Database) ProjectRepository {
	return &mongoProjectRepo{col: db.Collection("projects")}
}

func (r *mongoProjectRepo) Create(ctx context.Context, p *models.Project) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	res, err := r.col.InsertOne(ctx, p)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = id
	}
	return nil
}
