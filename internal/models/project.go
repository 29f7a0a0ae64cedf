package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProjectMember struct {
	User primitive.ObjectID `bson:"user" json:"user"`
	Role string             `bson:"role" json:"role"`
}

type Project struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Status      string             `bson:"status" json:"status"`
	StartDate   string             `bson:"start_date" json:"startDate"`
	DueDate     string             `bson:"due_date" json:"dueDate"`
	Tags        []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	Workspace   primitive.ObjectID `bson:"workspace" json:"workspace"`
	Members     []ProjectMember    `bson:"members,omitempty" json:"members,omitempty"`
	CreatedBy   primitive.ObjectID `bson:"created_by" json:"createdBy"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}
