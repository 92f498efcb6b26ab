package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is a direct message between two users. Never mutated after insert.
type Message struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	SenderID   uint               `json:"sender_id" bson:"sender_id"`
	ReceiverID uint               `json:"receiver_id" bson:"receiver_id"`
	Text       string             `json:"text" bson:"text"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}

type SendMessageRequest struct {
	TextMessage string `json:"textMessage"`
}
