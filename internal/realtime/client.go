package realtime

import (
	"errors"
	"sync"
	"time"

	"github.com/anonto42/socialpulse/backend/internal/apperrors"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBufferSize = 256
)

var (
	ErrConnClosed     = errors.New("connection closed")
	ErrSendBufferFull = errors.New("send buffer full")
)

// Client is one browser socket. Writes go through a single goroutine so events reach the
// peer in the order Send was called.
type Client struct {
	id     string
	userID uint
	conn   *websocket.Conn
	send   chan []byte
	log    *zap.Logger

	mu     sync.Mutex
	closed bool
}

func NewClient(conn *websocket.Conn, userID uint, log *zap.Logger) *Client {
	return &Client{
		id:     uuid.NewString(),
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		log:    log,
	}
}

func (c *Client) ID() string   { return c.id }
func (c *Client) UserID() uint { return c.userID }

// Send encodes the event and queues it without blocking.
func (c *Client) Send(event string, payload any) error {
	msg, err := json.Marshal(Envelope{Event: event, Payload: payload, Timestamp: time.Now().UTC()})
	if err != nil {
		return apperrors.Delivery(err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return apperrors.Delivery(ErrConnClosed)
	}
	select {
	case c.send <- msg:
		return nil
	default:
		return apperrors.Delivery(ErrSendBufferFull)
	}
}

// Close stops the writer. Safe to call more than once.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// ReadPump blocks until the peer disconnects or stops answering pings. The socket is
// push-only, so inbound frames are discarded.
func (c *Client) ReadPump() {
	defer c.conn.Close()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Debug("websocket read failed", zap.Uint("user_id", c.userID), zap.Error(err))
			}
			return
		}
	}
}

// WritePump drains the send queue and keeps the connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.log.Debug("websocket write failed", zap.Uint("user_id", c.userID), zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
