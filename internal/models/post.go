package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a social media post stored in MongoDB
type Post struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	AuthorID      uint               `json:"author_id" bson:"author_id"`
	Caption       string             `json:"caption" bson:"caption"`
	ImageURL      string             `json:"image_url,omitempty" bson:"image_url,omitempty"`
	LikesCount    int                `json:"likes_count" bson:"likes_count"`
	CommentsCount int                `json:"comments_count" bson:"comments_count"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

// PostSummary is the subject preview attached to notifications.
type PostSummary struct {
	ID       string `json:"id"`
	Caption  string `json:"caption"`
	ImageURL string `json:"image_url,omitempty"`
}

func (p *Post) Summary() PostSummary {
	return PostSummary{ID: p.ID.Hex(), Caption: p.Caption, ImageURL: p.ImageURL}
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Caption  string `json:"caption" validate:"required,min=1,max=2200"`
	ImageURL string `json:"image_url,omitempty" validate:"omitempty,url"`
}
