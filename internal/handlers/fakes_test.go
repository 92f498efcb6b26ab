package handlers

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/anonto42/socialpulse/backend/internal/apperrors"
	"github.com/anonto42/socialpulse/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memPosts struct {
	mu     sync.Mutex
	posts  map[string]*models.Post
	getErr error
}

func (m *memPosts) failGets(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getErr = err
}

func newMemPosts() *memPosts {
	return &memPosts{posts: map[string]*models.Post{}}
}

func (m *memPosts) CreatePost(_ context.Context, p *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = primitive.NewObjectID()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	cp := *p
	m.posts[p.ID.Hex()] = &cp
	return nil
}

func (m *memPosts) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	p, ok := m.posts[id]
	if !ok {
		return nil, apperrors.NotFound("Post not found")
	}
	cp := *p
	return &cp, nil
}

func (m *memPosts) GetPostsByIDs(_ context.Context, ids []string) (map[string]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]models.Post{}
	for _, id := range ids {
		if p, ok := m.posts[id]; ok {
			out[id] = *p
		}
	}
	return out, nil
}

func (m *memPosts) list(keep func(*models.Post) bool, skip, limit int64) []models.Post {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := []models.Post{}
	for _, p := range m.posts {
		if keep(p) {
			all = append(all, *p)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if skip >= int64(len(all)) {
		return []models.Post{}
	}
	all = all[skip:]
	if limit > 0 && int64(len(all)) > limit {
		all = all[:limit]
	}
	return all
}

func (m *memPosts) GetPostsByAuthor(_ context.Context, authorID uint, skip, limit int64) ([]models.Post, error) {
	return m.list(func(p *models.Post) bool { return p.AuthorID == authorID }, skip, limit), nil
}

func (m *memPosts) GetAllPosts(_ context.Context, skip, limit int64) ([]models.Post, error) {
	return m.list(func(*models.Post) bool { return true }, skip, limit), nil
}

func (m *memPosts) CountPosts(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.posts)), nil
}

func (m *memPosts) DeletePost(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[id]; !ok {
		return apperrors.NotFound("Post not found")
	}
	delete(m.posts, id)
	return nil
}

func (m *memPosts) AdjustLikesCount(_ context.Context, id string, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.posts[id]; ok {
		p.LikesCount += delta
	}
	return nil
}

func (m *memPosts) AdjustCommentsCount(_ context.Context, id string, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.posts[id]; ok {
		p.CommentsCount += delta
	}
	return nil
}

type memNotifications struct {
	mu    sync.Mutex
	items []models.Notification
}

func (m *memNotifications) Create(_ context.Context, n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n.ID = primitive.NewObjectID()
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

func (m *memNotifications) forRecipient(recipientID uint) []models.Notification {
	out := []models.Notification{}
	for i := len(m.items) - 1; i >= 0; i-- {
		if m.items[i].RecipientID == recipientID {
			out = append(out, m.items[i])
		}
	}
	return out
}

func (m *memNotifications) ListByRecipient(_ context.Context, recipientID uint, skip, limit int64) ([]models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.forRecipient(recipientID)
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
	out := []models.Notification{}
	for _, n := range m.forRecipient(recipientID) {
		if (from.IsZero() || !n.CreatedAt.Before(from)) && (to.IsZero() || n.CreatedAt.Before(to)) {
			out = append(out, n)
		}
	}
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memNotifications) CountByRecipient(_ context.Context, recipientID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.forRecipient(recipientID))), nil
}

func (m *memNotifications) CountUnread(_ context.Context, recipientID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var c int64
	for _, n := range m.forRecipient(recipientID) {
		if !n.Read {
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

func (m *memNotifications) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

type memMessages struct {
	mu    sync.Mutex
	items []models.Message
}

func (m *memMessages) Create(_ context.Context, msg *models.Message) error {
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

type frame struct {
	event   string
	payload any
}

// recordingConn stands in for a websocket client in the presence registry.
type recordingConn struct {
	id string

	mu     sync.Mutex
	frames []frame
}

func (c *recordingConn) ID() string { return c.id }

func (c *recordingConn) Send(event string, payload any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = append(c.frames, frame{event: event, payload: payload})
	return nil
}

func (c *recordingConn) events(name string) []frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := []frame{}
	for _, f := range c.frames {
		if f.event == name {
			out = append(out, f)
		}
	}
	return out
}
