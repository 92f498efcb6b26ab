package services

import (
	"context"
	"time"

	"github.com/anonto42/socialpulse/backend/internal/apperrors"
	"github.com/anonto42/socialpulse/backend/internal/models"
	"github.com/anonto42/socialpulse/backend/internal/repositories"
	"github.com/jinzhu/copier"
	"go.uber.org/zap"
)

const (
	DefaultNotificationLimit = 10
	MaxNotificationLimit     = 50
	olderBucketLimit         = 50
)

// UserReader loads display projections for enrichment.
type UserReader interface {
	GetUsersByIDs(ids []uint) (map[uint]models.User, error)
}

// PostReader loads subject summaries for enrichment.
type PostReader interface {
	GetPostsByIDs(ctx context.Context, ids []string) (map[string]models.Post, error)
}

// NotificationPage is one page of a recipient's ledger.
type NotificationPage struct {
	Items []models.NotificationResponse
	Total int64
	Page  int
	Limit int
}

// NotificationLedger is the durable, queryable record of cross-user activity.
type NotificationLedger struct {
	notifications repositories.NotificationRepository
	users         UserReader
	posts         PostReader
	defaultLimit  int
	log           *zap.Logger
	now           func() time.Time
}

func NewNotificationLedger(repo repositories.NotificationRepository, users UserReader, posts PostReader, defaultLimit int, log *zap.Logger) *NotificationLedger {
	if defaultLimit < 1 || defaultLimit > MaxNotificationLimit {
		defaultLimit = DefaultNotificationLimit
	}
	return &NotificationLedger{
		notifications: repo,
		users:         users,
		posts:         posts,
		defaultLimit:  defaultLimit,
		log:           log,
		now:           time.Now,
	}
}

// Record appends an unread notification. The write is complete when Record returns.
// Repeated identical activity produces repeated records.
func (l *NotificationLedger) Record(ctx context.Context, recipientID, senderID uint, postID, kind, message string) (*models.Notification, error) {
	if recipientID == 0 || senderID == 0 {
		return nil, apperrors.Validation("recipient and sender are required")
	}
	if !models.ValidNotificationType(kind) {
		return nil, apperrors.Validation("unknown notification type: " + kind)
	}

	n := &models.Notification{
		RecipientID: recipientID,
		SenderID:    senderID,
		PostID:      postID,
		Type:        kind,
		Message:     message,
		CreatedAt:   l.now().UTC(),
	}
	if err := l.notifications.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// ListRecent returns the recipient's notifications newest first, enriched with the
// sender projection and post summary.
func (l *NotificationLedger) ListRecent(ctx context.Context, userID uint, page, limit int) (*NotificationPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = l.defaultLimit
	}
	if limit > MaxNotificationLimit {
		limit = MaxNotificationLimit
	}

	list, err := l.notifications.ListByRecipient(ctx, userID, int64((page-1)*limit), int64(limit))
	if err != nil {
		return nil, err
	}
	total, err := l.notifications.CountByRecipient(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &NotificationPage{
		Items: l.enrich(ctx, list),
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

// ListGrouped buckets the recipient's notifications into today, yesterday, the rest of
// the last week, and older (capped).
func (l *NotificationLedger) ListGrouped(ctx context.Context, userID uint) (*models.GroupedNotifications, error) {
	now := l.now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	yesterdayStart := todayStart.AddDate(0, 0, -1)
	weekStart := todayStart.AddDate(0, 0, -7)

	windows := []struct {
		from, to time.Time
		limit    int64
	}{
		{todayStart, time.Time{}, 0},
		{yesterdayStart, todayStart, 0},
		{weekStart, yesterdayStart, 0},
		{time.Time{}, weekStart, olderBucketLimit},
	}

	buckets := make([][]models.NotificationResponse, len(windows))
	for i, w := range windows {
		list, err := l.notifications.ListBetween(ctx, userID, w.from, w.to, w.limit)
		if err != nil {
			return nil, err
		}
		buckets[i] = l.enrich(ctx, list)
	}

	return &models.GroupedNotifications{
		Today:     buckets[0],
		Yesterday: buckets[1],
		ThisWeek:  buckets[2],
		Older:     buckets[3],
	}, nil
}

func (l *NotificationLedger) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return l.notifications.CountUnread(ctx, userID)
}

// MarkAllRead is idempotent; the second call modifies nothing.
func (l *NotificationLedger) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	return l.notifications.MarkAllRead(ctx, userID)
}

// Delete removes a record on behalf of its recipient.
func (l *NotificationLedger) Delete(ctx context.Context, id string, requestingUserID uint) error {
	n, err := l.notifications.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if n.RecipientID != requestingUserID {
		return apperrors.Forbidden("You are not allowed to delete this notification")
	}
	return l.notifications.Delete(ctx, n.ID)
}

// enrich never fails the read: a projection that cannot be loaded is left out.
func (l *NotificationLedger) enrich(ctx context.Context, list []models.Notification) []models.NotificationResponse {
	out := make([]models.NotificationResponse, len(list))
	if len(list) == 0 {
		return out
	}

	senderIDs := make([]uint, 0, len(list))
	postIDs := make([]string, 0, len(list))
	seenSender := map[uint]bool{}
	seenPost := map[string]bool{}
	for _, n := range list {
		if !seenSender[n.SenderID] {
			seenSender[n.SenderID] = true
			senderIDs = append(senderIDs, n.SenderID)
		}
		if n.PostID != "" && !seenPost[n.PostID] {
			seenPost[n.PostID] = true
			postIDs = append(postIDs, n.PostID)
		}
	}

	senders, err := l.users.GetUsersByIDs(senderIDs)
	if err != nil {
		l.log.Warn("notification sender enrichment failed", zap.Error(err))
	}
	posts, err := l.posts.GetPostsByIDs(ctx, postIDs)
	if err != nil {
		l.log.Warn("notification post enrichment failed", zap.Error(err))
	}

	for i := range list {
		n := list[i]
		if err := copier.Copy(&out[i], &n); err != nil {
			l.log.Warn("notification projection failed", zap.String("id", n.ID.Hex()), zap.Error(err))
		}
		out[i].ID = n.ID.Hex()
		if u, ok := senders[n.SenderID]; ok {
			compact := u.ToCompact()
			out[i].Sender = &compact
		}
		if p, ok := posts[n.PostID]; ok {
			summary := p.Summary()
			out[i].Post = &summary
		}
	}
	return out
}
