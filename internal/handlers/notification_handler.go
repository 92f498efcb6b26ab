package handlers

import (
	"net/http"

	"github.com/anonto42/socialpulse/backend/internal/apperrors"
	"github.com/anonto42/socialpulse/backend/internal/models"
	"github.com/anonto42/socialpulse/backend/internal/realtime"
	"github.com/anonto42/socialpulse/backend/internal/repositories"
	"github.com/anonto42/socialpulse/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	ledger         *services.NotificationLedger
	userRepository repositories.UserRepository
	pusher         services.Pusher
	defaultLimit   int
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(ledger *services.NotificationLedger, userRepo repositories.UserRepository, pusher services.Pusher, defaultLimit int) *NotificationHandler {
	if defaultLimit < 1 {
		defaultLimit = services.DefaultNotificationLimit
	}
	return &NotificationHandler{
		ledger:         ledger,
		userRepository: userRepo,
		pusher:         pusher,
		defaultLimit:   defaultLimit,
	}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/grouped", h.GetGroupedNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.POST("/notifications", h.CreateNotification)
	g.PUT("/notifications/read-all", h.MarkAllAsRead)
	g.DELETE("/notifications/:id", h.DeleteNotification)
}

// GetNotifications returns paginated notifications
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	currentUserID, err := requireUserID(c)
	if err != nil {
		return err
	}

	page, limit := pageParams(c, h.defaultLimit, services.MaxNotificationLimit)
	result, err := h.ledger.ListRecent(c.Request().Context(), currentUserID, page, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"notifications": result.Items,
		},
		"meta": paginationMeta(result.Page, result.Limit, result.Total),
	})
}

// GetGroupedNotifications returns notifications grouped by time period
func (h *NotificationHandler) GetGroupedNotifications(c echo.Context) error {
	currentUserID, err := requireUserID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	grouped, err := h.ledger.ListGrouped(ctx, currentUserID)
	if err != nil {
		return err
	}
	unreadCount, err := h.ledger.UnreadCount(ctx, currentUserID)
	if err != nil {
		return err
	}

	return success(c, http.StatusOK, echo.Map{
		"notifications": grouped,
		"unreadCount":   unreadCount,
	})
}

// GetUnreadCount returns the unread notification count
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	currentUserID, err := requireUserID(c)
	if err != nil {
		return err
	}
	count, err := h.ledger.UnreadCount(c.Request().Context(), currentUserID)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, echo.Map{"count": count})
}

// CreateNotification records a notification from the caller and pushes it live.
func (h *NotificationHandler) CreateNotification(c echo.Context) error {
	currentUserID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var req models.CreateNotificationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.RecipientID == currentUserID {
		return apperrors.Validation("Cannot notify yourself")
	}

	ctx := c.Request().Context()
	if _, err := h.userRepository.GetUserByID(req.RecipientID); err != nil {
		return err
	}
	sender, err := h.userRepository.GetUserByID(currentUserID)
	if err != nil {
		return err
	}

	message := notificationMessage(sender.Name, req.Type)
	n, err := h.ledger.Record(ctx, req.RecipientID, currentUserID, req.PostID, req.Type, message)
	if err != nil {
		return err
	}

	h.pusher.Push(ctx, req.RecipientID, realtime.EventNotification, models.EventPayload{
		Type:        req.Type,
		UserID:      currentUserID,
		UserDetails: sender.ToCompact(),
		PostID:      req.PostID,
		Message:     message,
	})

	return success(c, http.StatusCreated, n)
}

// MarkAllAsRead marks all notifications as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	currentUserID, err := requireUserID(c)
	if err != nil {
		return err
	}
	modified, err := h.ledger.MarkAllRead(c.Request().Context(), currentUserID)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, echo.Map{"modified": modified})
}

// DeleteNotification removes one of the caller's notifications.
func (h *NotificationHandler) DeleteNotification(c echo.Context) error {
	currentUserID, err := requireUserID(c)
	if err != nil {
		return err
	}
	id := c.Param("id")
	if err := h.ledger.Delete(c.Request().Context(), id, currentUserID); err != nil {
		return err
	}
	return success(c, http.StatusOK, echo.Map{"id": id})
}

func notificationMessage(name, kind string) string {
	switch kind {
	case models.NotificationLike:
		return name + " liked your post"
	case models.NotificationComment:
		return name + " commented on your post"
	case models.NotificationFollow:
		return name + " started following you"
	}
	return ""
}
