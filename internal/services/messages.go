package services

import (
	"context"
	"strings"

	"github.com/anonto42/socialpulse/backend/internal/apperrors"
	"github.com/anonto42/socialpulse/backend/internal/models"
	"github.com/anonto42/socialpulse/backend/internal/realtime"
	"github.com/anonto42/socialpulse/backend/internal/repositories"
)

// Pusher delivers a best-effort live event. *realtime.Dispatcher satisfies it.
type Pusher interface {
	Push(ctx context.Context, target uint, event string, payload any)
}

// MessageChannel persists direct messages and forwards them to a connected receiver.
type MessageChannel struct {
	messages repositories.MessageRepository
	pusher   Pusher
}

func NewMessageChannel(repo repositories.MessageRepository, pusher Pusher) *MessageChannel {
	return &MessageChannel{messages: repo, pusher: pusher}
}

// Send stores the message, then pushes it. A failed push leaves the stored message in place.
func (c *MessageChannel) Send(ctx context.Context, senderID, receiverID uint, text string) (*models.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.Validation("Message text is required")
	}
	if senderID == 0 || receiverID == 0 {
		return nil, apperrors.Validation("sender and receiver are required")
	}
	if senderID == receiverID {
		return nil, apperrors.Validation("Cannot message yourself")
	}

	msg := &models.Message{SenderID: senderID, ReceiverID: receiverID, Text: text}
	if err := c.messages.Create(ctx, msg); err != nil {
		return nil, err
	}

	c.pusher.Push(ctx, receiverID, realtime.EventNewMessage, msg)
	return msg, nil
}

// History returns the conversation between a and b oldest first.
func (c *MessageChannel) History(ctx context.Context, a, b uint) ([]models.Message, error) {
	return c.messages.ListConversation(ctx, a, b)
}
