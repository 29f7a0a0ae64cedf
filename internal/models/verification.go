package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Verification tracks one outstanding token-based action for a user. At most
// one record per (user, purpose) exists at a time, enforced by a unique index.
type Verification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"userId"`
	Token     string             `bson:"token" json:"-"`
	Purpose   string             `bson:"purpose" json:"purpose"`
	ExpiresAt time.Time          `bson:"expires_at" json:"expiresAt"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

// Active reports whether the record has not yet expired.
func (v *Verification) Active(now time.Time) bool {
	return v.ExpiresAt.After(now)
}
