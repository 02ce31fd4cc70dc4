package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Bookmark struct {
	ID          primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	UserID      primitive.ObjectID  `json:"user_id" bson:"user_id"`
	FolderID    *primitive.ObjectID `json:"folder_id" bson:"folder_id"`
	Title       string              `json:"title" bson:"title"`
	URL         string              `json:"url" bson:"url"`
	Description string              `json:"description" bson:"description"`
	Suggested   bool                `json:"suggested" bson:"suggested"`
	CreatedAt   time.Time           `json:"created_at" bson:"created_at"`

	// Lower-cased copies of Title and URL, used for case-insensitive uniqueness.
	TitleKey string `json:"-" bson:"title_key"`
	URLKey   string `json:"-" bson:"url_key"`
}

// MatchKey normalizes a title or URL for case-insensitive comparison.
func MatchKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

type AddBookmarkRequestBody struct {
	Title       string  `json:"title" validate:"required"`
	URL         string  `json:"url" validate:"required"`
	Description string  `json:"description"`
	FolderID    *string `json:"folder_id"`
}

type UpdateBookmarkRequestBody struct {
	Title       *string `json:"title,omitempty"`
	URL         *string `json:"url,omitempty"`
	Description *string `json:"description,omitempty"`
}

// MoveBookmarkRequestBody moves a bookmark into a folder; a null folder_id takes it out.
type MoveBookmarkRequestBody struct {
	FolderID *string `json:"folder_id"`
}
