package handlers

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"time"

	"github.com/anonto42/socialpulse/backend/internal/realtime"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

func uintPath(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

type wireEnvelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

func (s *HandlerSuite) dial(srv *httptest.Server, token string) (*websocket.Conn, *http.Response, error) {
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + token
	return websocket.DefaultDialer.Dial(url, nil)
}

func (s *HandlerSuite) readEnvelope(conn *websocket.Conn) wireEnvelope {
	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(2 * time.Second)))
	_, data, err := conn.ReadMessage()
	s.Require().NoError(err)
	var env wireEnvelope
	s.Require().NoError(json.Unmarshal(data, &env))
	return env
}

func (s *HandlerSuite) TestWebSocketRejectsBadToken() {
	srv := httptest.NewServer(s.e)
	defer srv.Close()

	_, resp, err := s.dial(srv, "not-a-token")
	s.Require().Error(err)
	s.Require().NotNil(resp)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	s.Zero(s.registry.Len())
}

func (s *HandlerSuite) TestWebSocketLifecycle() {
	srv := httptest.NewServer(s.e)
	defer srv.Close()

	conn, _, err := s.dial(srv, s.token(s.alice))
	s.Require().NoError(err)

	env := s.readEnvelope(conn)
	s.Equal(realtime.EventOnlineUsers, env.Event)
	var online []uint
	s.Require().NoError(json.Unmarshal(env.Payload, &online))
	s.Equal([]uint{s.alice.ID}, online)

	postID := s.createPost(s.alice)
	code, _ := s.call(http.MethodPost, "/api/v1/posts/"+postID+"/likes", nil, s.bob)
	s.Require().Equal(http.StatusCreated, code)

	env = s.readEnvelope(conn)
	s.Equal(realtime.EventNotification, env.Event)
	var payload struct {
		Type   string `json:"type"`
		UserID uint   `json:"userId"`
		PostID string `json:"postId"`
	}
	s.Require().NoError(json.Unmarshal(env.Payload, &payload))
	s.Equal("like", payload.Type)
	s.Equal(s.bob.ID, payload.UserID)
	s.Equal(postID, payload.PostID)

	s.Require().NoError(conn.Close())
	s.Eventually(func() bool { return s.registry.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func (s *HandlerSuite) TestWebSocketReconnectSupersedes() {
	srv := httptest.NewServer(s.e)
	defer srv.Close()

	first, _, err := s.dial(srv, s.token(s.alice))
	s.Require().NoError(err)
	defer first.Close()
	s.readEnvelope(first)

	second, _, err := s.dial(srv, s.token(s.alice))
	s.Require().NoError(err)
	defer second.Close()
	s.readEnvelope(second)

	// Closing the superseded socket leaves the newer binding in place.
	s.Require().NoError(first.Close())
	time.Sleep(100 * time.Millisecond)
	s.Equal(1, s.registry.Len())

	postID := s.createPost(s.alice)
	s.call(http.MethodPost, "/api/v1/posts/"+postID+"/likes", nil, s.bob)

	env := s.readEnvelope(second)
	s.Equal(realtime.EventNotification, env.Event)
}
