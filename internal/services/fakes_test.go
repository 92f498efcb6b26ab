package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/anonto42/socialpulse/backend/internal/apperrors"
	"github.com/anonto42/socialpulse/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errStoreDown = errors.New("store down")

type memNotifications struct {
	mu        sync.Mutex
	items     []models.Notification
	createErr error
}

func (m *memNotifications) Create(_ context.Context, n *models.Notification) error {
	if m.createErr != nil {
		return apperrors.Storage(m.createErr, "insert notification")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	m.items = append(m.items, *n)
	return nil
}

func (m *memNotifications) GetByID(_ context.Context, id string) (*models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.items {
		if n.ID.Hex() == id {
			found := n
			return &found, nil
		}
	}
	return nil, apperrors.NotFound("Notification not found")
}

func (m *memNotifications) sorted(recipientID uint, keep func(models.Notification) bool) []models.Notification {
	out := []models.Notification{}
	for _, n := range m.items {
		if n.RecipientID == recipientID && keep(n) {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.Hex() > out[j].ID.Hex()
	})
	return out
}

func (m *memNotifications) ListByRecipient(_ context.Context, recipientID uint, skip, limit int64) ([]models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.sorted(recipientID, func(models.Notification) bool { return true })
	if skip >= int64(len(all)) {
		return []models.Notification{}, nil
	}
	all = all[skip:]
	if limit > 0 && int64(len(all)) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (m *memNotifications) ListBetween(_ context.Context, recipientID uint, from, to time.Time, limit int64) ([]models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.sorted(recipientID, func(n models.Notification) bool {
		if !from.IsZero() && n.CreatedAt.Before(from) {
			return false
		}
		if !to.IsZero() && !n.CreatedAt.Before(to) {
			return false
		}
		return true
	})
	if limit > 0 && int64(len(all)) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (m *memNotifications) CountByRecipient(_ context.Context, recipientID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var c int64
	for _, n := range m.items {
		if n.RecipientID == recipientID {
			c++
		}
	}
	return c, nil
}

func (m *memNotifications) CountUnread(_ context.Context, recipientID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var c int64
	for _, n := range m.items {
		if n.RecipientID == recipientID && !n.Read {
			c++
		}
	}
	return c, nil
}

func (m *memNotifications) MarkAllRead(_ context.Context, recipientID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var c int64
	for i := range m.items {
		if m.items[i].RecipientID == recipientID && !m.items[i].Read {
			m.items[i].Read = true
			c++
		}
	}
	return c, nil
}

func (m *memNotifications) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, n := range m.items {
		if n.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return apperrors.NotFound("Notification not found")
}

func (m *memNotifications) all() []models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Notification(nil), m.items...)
}

type memMessages struct {
	mu        sync.Mutex
	items     []models.Message
	createErr error
}

func (m *memMessages) Create(_ context.Context, msg *models.Message) error {
	if m.createErr != nil {
		return apperrors.Storage(m.createErr, "insert message")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	msg.ID = primitive.NewObjectID()
	msg.CreatedAt = time.Now().UTC()
	m.items = append(m.items, *msg)
	return nil
}

func (m *memMessages) ListConversation(_ context.Context, a, b uint) ([]models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Message{}
	for _, msg := range m.items {
		if (msg.SenderID == a && msg.ReceiverID == b) || (msg.SenderID == b && msg.ReceiverID == a) {
			out = append(out, msg)
		}
	}
	return out, nil
}

type staticUsers map[uint]models.User

func (s staticUsers) GetUsersByIDs(ids []uint) (map[uint]models.User, error) {
	out := make(map[uint]models.User, len(ids))
	for _, id := range ids {
		if u, ok := s[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

type failingUsers struct{}

func (failingUsers) GetUsersByIDs([]uint) (map[uint]models.User, error) {
	return nil, errStoreDown
}

type staticPosts map[string]models.Post

func (s staticPosts) GetPostsByIDs(_ context.Context, ids []string) (map[string]models.Post, error) {
	out := make(map[string]models.Post, len(ids))
	for _, id := range ids {
		if p, ok := s[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

type push struct {
	target  uint
	event   string
	payload any
}

type recordingPusher struct {
	mu     sync.Mutex
	pushes []push
}

func (p *recordingPusher) Push(_ context.Context, target uint, event string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pushes = append(p.pushes, push{target: target, event: event, payload: payload})
}

func (p *recordingPusher) all() []push {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]push(nil), p.pushes...)
}
