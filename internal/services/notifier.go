package services

import (
	"context"

	"github.com/anonto42/socialpulse/backend/internal/models"
	"github.com/anonto42/socialpulse/backend/internal/realtime"
	"go.uber.org/zap"
)

// Recorder is the write side of the ledger.
type Recorder interface {
	Record(ctx context.Context, recipientID, senderID uint, postID, kind, message string) (*models.Notification, error)
}

// Activity describes one cross-user action after its primary write succeeded.
type Activity struct {
	Kind        string
	Actor       models.UserCompact
	RecipientID uint
	PostID      string
	Message     string
}

func (a Activity) payload() models.EventPayload {
	return models.EventPayload{
		Type:        a.Kind,
		UserID:      a.Actor.ID,
		UserDetails: a.Actor,
		PostID:      a.PostID,
		Message:     a.Message,
	}
}

// Notifier is what feature handlers call after their own write: ledger first, live push
// second. Neither step can fail the caller.
type Notifier struct {
	ledger Recorder
	pusher Pusher
	log    *zap.Logger
}

func NewNotifier(ledger Recorder, pusher Pusher, log *zap.Logger) *Notifier {
	return &Notifier{ledger: ledger, pusher: pusher, log: log}
}

// Notify records and pushes the activity. Activity aimed at the actor is skipped.
func (n *Notifier) Notify(ctx context.Context, a Activity) {
	if a.RecipientID == 0 || a.RecipientID == a.Actor.ID {
		return
	}
	if _, err := n.ledger.Record(ctx, a.RecipientID, a.Actor.ID, a.PostID, a.Kind, a.Message); err != nil {
		n.log.Error("failed to record notification",
			zap.String("type", a.Kind),
			zap.Uint("recipient_id", a.RecipientID),
			zap.Uint("sender_id", a.Actor.ID),
			zap.Error(err))
	}
	n.pusher.Push(ctx, a.RecipientID, realtime.EventNotification, a.payload())
}

// Signal pushes the activity on the notification event without a ledger record.
func (n *Notifier) Signal(ctx context.Context, a Activity) {
	if a.RecipientID == 0 || a.RecipientID == a.Actor.ID {
		return
	}
	n.pusher.Push(ctx, a.RecipientID, realtime.EventNotification, a.payload())
}
