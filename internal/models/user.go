package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an account in the system. The password hash is excluded
// from JSON so it can never leak through an API response.
type User struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string             `bson:"name" json:"name"`
	Email           string             `bson:"email" json:"email"`
	PasswordHash    string             `bson:"password_hash" json:"-"`
	IsEmailVerified bool               `bson:"is_email_verified" json:"isEmailVerified"`
	LastLogin       *time.Time         `bson:"last_login,omitempty" json:"lastLogin,omitempty"`
	CreatedAt       time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updatedAt"`
}
