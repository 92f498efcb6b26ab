package handlers

import (
	"net/http"

	"github.com/anonto42/socialpulse/backend/internal/apperrors"
	"github.com/anonto42/socialpulse/backend/internal/middleware"
	"github.com/anonto42/socialpulse/backend/internal/presence"
	"github.com/anonto42/socialpulse/backend/internal/realtime"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// WSHandler upgrades authenticated clients and keeps their presence binding for the
// lifetime of the socket.
type WSHandler struct {
	registry   *presence.Registry
	dispatcher *realtime.Dispatcher
	jwtSecret  string
	upgrader   websocket.Upgrader
	log        *zap.Logger
}

func NewWSHandler(registry *presence.Registry, dispatcher *realtime.Dispatcher, jwtSecret string, allowedOrigins []string, log *zap.Logger) *WSHandler {
	return &WSHandler{
		registry:   registry,
		dispatcher: dispatcher,
		jwtSecret:  jwtSecret,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		log: log,
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		set[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set["*"] || set[origin]
	}
}

// Serve handles GET /ws?token=. It returns when the peer disconnects.
func (h *WSHandler) Serve(c echo.Context) error {
	claims, err := middleware.ParseToken(h.jwtSecret, c.QueryParam("token"))
	if err != nil {
		return apperrors.Unauthorized("Invalid token")
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// The upgrader has already written the failure response.
		h.log.Debug("websocket upgrade failed", zap.Error(err))
		return nil
	}

	client := realtime.NewClient(conn, claims.UserID, h.log)
	if prev := h.registry.Bind(claims.UserID, client); prev != nil {
		h.log.Debug("connection superseded",
			zap.Uint("user_id", claims.UserID), zap.String("previous", prev.ID()))
	}
	h.log.Info("user connected", zap.Uint("user_id", client.UserID()), zap.String("conn", client.ID()))
	h.broadcastOnline()

	go client.WritePump()
	client.ReadPump()

	if h.registry.Unbind(client) {
		h.broadcastOnline()
	}
	client.Close()
	h.log.Info("user disconnected", zap.Uint("user_id", client.UserID()), zap.String("conn", client.ID()))
	return nil
}

func (h *WSHandler) broadcastOnline() {
	h.dispatcher.Broadcast(realtime.EventOnlineUsers, h.registry.ListOnline())
}
