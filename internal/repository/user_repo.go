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

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	MarkEmailVerified(ctx context.Context, id primitive.ObjectID) error
	SetPassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error
	SetLastLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error
}

type mongoUserRepo struct {
	col *mongo.Collection
}

func NewMongoUserRepo(db *mongo.Database) UserRepository {
	return &mongoUserRepo{col: db.Collection("users")}
}

func (r *mongoUserRepo) Create(ctx context.Context, u *models.User) error {
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	res, err := r.col.InsertOne(ctx, u)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = id
	}
	return nil
}

func (r *mongoUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *mongoUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *mongoUserRepo) MarkEmailVerified(ctx context.Context, id primitive.ObjectID) error {
	return r.set(ctx, id, bson.M{"is_email_verified": true})
}

func (r *mongoUserRepo) SetPassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	return r.set(ctx, id, bson.M{"password_hash": passwordHash})
}

func (r *mongoUserRepo) SetLastLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	return r.set(ctx, id, bson.M{"last_login": at})
}

func (r *mongoUserRepo) set(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	fields["updated_at"] = time.Now().UTC()
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
