package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func ConnectMongo(uri, dbName string, logger *zap.SugaredLogger) (*mongo.Database, *mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		logger.Errorf("MongoDB connection failed: %v", err)
		return nil, nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		logger.Errorf("MongoDB ping failed: %v", err)
		return nil, nil, err
	}

	logger.Info("MongoDB connected successfully")
	db := client.Database(dbName)
	return db, client, nil
}

// EnsureIndexes creates the unique indexes the application relies on as its
// correctness backstop under concurrent requests: one account per email and
// one outstanding verification per (user, purpose). Duplicate-key errors from
// these indexes are mapped to conflicts at the repository layer.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("verifications").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "purpose", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	return err
}
