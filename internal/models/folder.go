package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Folder struct {
	ID     primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID primitive.ObjectID `json:"user_id" bson:"user_id"`
	Name   string             `json:"name" bson:"name"`
}

type FolderRequestBody struct {
	Name string `json:"name" validate:"required"`
}
