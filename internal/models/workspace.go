package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
	RoleViewer = "viewer"
)

type WorkspaceMember struct {
	User     primitive.ObjectID `bson:"user" json:"user"`
	Role     string             `bson:"role" json:"role"`
	JoinedAt time.Time          `bson:"joined_at" json:"joinedAt"`
}

type Workspace struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name        string               `bson:"name" json:"name"`
	Description string               `bson:"description,omitempty" json:"description,omitempty"`
	Color       string               `bson:"color" json:"color"`
	Owner       primitive.ObjectID   `bson:"owner" json:"owner"`
	Members     []WorkspaceMember    `bson:"members" json:"members"`
	Projects    []primitive.ObjectID `bson:"projects" json:"projects"`
	CreatedAt   time.Time            `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updated_at" json:"updatedAt"`
}

// HasMember reports whether the given user belongs to the workspace.
func (w *Workspace) HasMember(userID primitive.ObjectID) bool {
	for _, m := range w.Members {
		if m.User == userID {
			return true
		}
	}
	return false
}
