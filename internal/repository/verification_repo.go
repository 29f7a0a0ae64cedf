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

// VerificationRepository is the ledger of outstanding verification and
// password-reset records. Deletes are idempotent: removing a record that is
// already gone is not an error, so retried consumption stays safe.
type VerificationRepository interface {
	Create(ctx context.Context, v *models.Verification) error
	Find(ctx context.Context, userID primitive.ObjectID, tokenStr string) (*models.Verification, error)
	FindByUserAndPurpose(ctx context.Context, userID primitive.ObjectID, purpose string) (*models.Verification, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByUserAndPurpose(ctx context.Context, userID primitive.ObjectID, purpose string) error
}

type mongoVerificationRepo struct {
	col *mongo.Collection
}

func NewMongoVerificationRepo(db *mongo.Database) VerificationRepository {
	return &mongoVerificationRepo{col: db.Collection("verifications")}
}

func (r *mongoVerificationRepo) Create(ctx context.Context, v *models.Verification) error {
	v.CreatedAt = time.Now().UTC()
	res, err := r.col.InsertOne(ctx, v)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		v.ID = id
	}
	return nil
}

func (r *mongoVerificationRepo) Find(ctx context.Context, userID primitive.ObjectID, tokenStr string) (*models.Verification, error) {
	return r.findOne(ctx, bson.M{"user_id": userID, "token": tokenStr})
}

func (r *mongoVerificationRepo) FindByUserAndPurpose(ctx context.Context, userID primitive.ObjectID, purpose string) (*models.Verification, error) {
	return r.findOne(ctx, bson.M{"user_id": userID, "purpose": purpose})
}

func (r *mongoVerificationRepo) findOne(ctx context.Context, filter bson.M) (*models.Verification, error) {
	var v models.Verification
	err := r.col.FindOne(ctx, filter).Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *mongoVerificationRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *mongoVerificationRepo) DeleteByUserAndPurpose(ctx context.Context, userID primitive.ObjectID, purpose string) error {
	_, err := r.col.DeleteMany(ctx, bson.M{"user_id": userID, "purpose": purpose})
	return err
}
