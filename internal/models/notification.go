package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	NotificationLike    = "like"
	NotificationComment = "comment"
	NotificationFollow  = "follow"
)

// ValidNotificationType reports whether t is a kind the ledger stores.
func ValidNotificationType(t string) bool {
	switch t {
	case NotificationLike, NotificationComment, NotificationFollow:
		return true
	}
	return false
}

// Notification is a ledger record stored in MongoDB.
type Notification struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	RecipientID uint               `json:"recipient_id" bson:"recipient_id"`
	SenderID    uint               `json:"sender_id" bson:"sender_id"`
	PostID      string             `json:"post_id,omitempty" bson:"post_id,omitempty"`
	Type        string             `json:"type" bson:"type"`
	Message     string             `json:"message" bson:"message"`
	Read        bool               `json:"read" bson:"read"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}

// NotificationResponse is the enriched view returned to the recipient.
type NotificationResponse struct {
	ID          string       `json:"id" copier:"-"`
	RecipientID uint         `json:"recipient_id"`
	SenderID    uint         `json:"sender_id"`
	PostID      string       `json:"post_id,omitempty"`
	Type        string       `json:"type"`
	Message     string       `json:"message"`
	Read        bool         `json:"read"`
	CreatedAt   time.Time    `json:"created_at"`
	Sender      *UserCompact `json:"sender,omitempty"`
	Post        *PostSummary `json:"post,omitempty"`
}

// GroupedNotifications buckets a recipient's notifications by age.
type GroupedNotifications struct {
	Today     []NotificationResponse `json:"today"`
	Yesterday []NotificationResponse `json:"yesterday"`
	ThisWeek  []NotificationResponse `json:"thisWeek"`
	Older     []NotificationResponse `json:"older"`
}

// CreateNotificationRequest defines the request body for recording a notification directly.
type CreateNotificationRequest struct {
	RecipientID uint   `json:"recipient_id" validate:"required"`
	PostID      string `json:"post_id,omitempty" validate:"omitempty,len=24,hexadecimal"`
	Type        string `json:"type" validate:"required,oneof=like comment follow"`
}
