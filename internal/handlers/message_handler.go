package handlers

import (
	"net/http"
	"strings"

	"github.com/anonto42/socialpulse/backend/internal/apperrors"
	"github.com/anonto42/socialpulse/backend/internal/models"
	"github.com/anonto42/socialpulse/backend/internal/repositories"
	"github.com/anonto42/socialpulse/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// MessageHandler serves direct messages.
type MessageHandler struct {
	channel          *services.MessageChannel
	userRepository   repositories.UserRepository
	followRepository repositories.FollowRepository
}

func NewMessageHandler(channel *services.MessageChannel, userRepo repositories.UserRepository, followRepo repositories.FollowRepository) *MessageHandler {
	return &MessageHandler{channel: channel, userRepository: userRepo, followRepository: followRepo}
}

func (h *MessageHandler) RegisterMessageRoutes(g *echo.Group) {
	g.POST("/messages/send/:id", h.SendMessage)
	g.GET("/messages/all/:id", h.GetMessages)
	g.GET("/messages/users", h.GetChatUsers)
	g.GET("/messages/users/search", h.SearchChatUsers)
}

// SendMessage stores a message to :id and pushes it when the receiver is online.
func (h *MessageHandler) SendMessage(c echo.Context) error {
	senderID, err := requireUserID(c)
	if err != nil {
		return err
	}
	receiverID, err := parseUserID(c, "id")
	if err != nil {
		return err
	}

	var req models.SendMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if _, err := h.userRepository.GetUserByID(receiverID); err != nil {
		return err
	}

	msg, err := h.channel.Send(c.Request().Context(), senderID, receiverID, req.TextMessage)
	if err != nil {
		return err
	}
	return success(c, http.StatusCreated, msg)
}

// GetMessages returns the conversation with :id oldest first.
func (h *MessageHandler) GetMessages(c echo.Context) error {
	currentUserID, err := requireUserID(c)
	if err != nil {
		return err
	}
	otherID, err := parseUserID(c, "id")
	if err != nil {
		return err
	}

	messages, err := h.channel.History(c.Request().Context(), currentUserID, otherID)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, echo.Map{"messages": messages})
}

// GetChatUsers lists the caller's followers and followings as message partners.
func (h *MessageHandler) GetChatUsers(c echo.Context) error {
	return h.chatUsers(c, "")
}

// SearchChatUsers narrows the chat partners by username or email.
func (h *MessageHandler) SearchChatUsers(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	if query == "" {
		return apperrors.Validation("Search query 'q' is required")
	}
	return h.chatUsers(c, query)
}

func (h *MessageHandler) chatUsers(c echo.Context, query string) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	if _, err := h.userRepository.GetUserByID(userID); err != nil {
		return err
	}

	users, err := h.followRepository.GetConnections(userID, query)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, echo.Map{"users": compactUsers(users)})
}
