package handlers

import (
	"net/http"

	"github.com/anonto42/socialpulse/backend/internal/apperrors"
	"github.com/anonto42/socialpulse/backend/internal/models"
	"github.com/anonto42/socialpulse/backend/internal/repositories"
	"github.com/anonto42/socialpulse/backend/internal/services"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// FollowHandler handles follow-related HTTP requests
type FollowHandler struct {
	followRepository repositories.FollowRepository
	userRepository   repositories.UserRepository
	notifier         *services.Notifier
	log              *zap.Logger
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(followRepo repositories.FollowRepository, userRepo repositories.UserRepository, notifier *services.Notifier, log *zap.Logger) *FollowHandler {
	return &FollowHandler{
		followRepository: followRepo,
		userRepository:   userRepo,
		notifier:         notifier,
		log:              log,
	}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:id/follow", h.ToggleFollow)
	g.GET("/users/:id/followers", h.GetFollowers)
	g.GET("/users/:id/following", h.GetFollowing)
}

// ToggleFollow follows the target, or unfollows when already following. Only a new
// follow notifies the target.
func (h *FollowHandler) ToggleFollow(c echo.Context) error {
	currentUserID, err := requireUserID(c)
	if err != nil {
		return err
	}
	targetID, err := parseUserID(c, "id")
	if err != nil {
		return err
	}
	if currentUserID == targetID {
		return apperrors.Validation("Cannot follow yourself")
	}

	if _, err := h.userRepository.GetUserByID(targetID); err != nil {
		return err
	}
	actor, err := h.userRepository.GetUserByID(currentUserID)
	if err != nil {
		return err
	}

	isFollowing, err := h.followRepository.IsFollowing(currentUserID, targetID)
	if err != nil {
		return err
	}

	if isFollowing {
		if err := h.followRepository.DeleteFollow(currentUserID, targetID); err != nil {
			return err
		}
		h.adjustCounts(currentUserID, targetID, -1)
		return success(c, http.StatusOK, echo.Map{"following": false})
	}

	follow := &models.Follow{FollowerID: currentUserID, FollowingID: targetID}
	if err := h.followRepository.CreateFollow(follow); err != nil {
		return err
	}
	h.adjustCounts(currentUserID, targetID, 1)

	h.notifier.Notify(c.Request().Context(), services.Activity{
		Kind:        models.NotificationFollow,
		Actor:       actor.ToCompact(),
		RecipientID: targetID,
		Message:     actor.Name + " started following you",
	})

	return success(c, http.StatusOK, echo.Map{"following": true})
}

func (h *FollowHandler) adjustCounts(followerID, followingID uint, delta int) {
	if err := h.userRepository.AdjustFollowCounts(followerID, followingID, delta); err != nil {
		h.log.Warn("failed to adjust follow counts",
			zap.Uint("follower_id", followerID),
			zap.Uint("following_id", followingID),
			zap.Error(err))
	}
}

func (h *FollowHandler) GetFollowers(c echo.Context) error {
	return h.list(c, h.followRepository.GetFollowers)
}

func (h *FollowHandler) GetFollowing(c echo.Context) error {
	return h.list(c, h.followRepository.GetFollowing)
}

func (h *FollowHandler) list(c echo.Context, load func(uint) ([]models.User, error)) error {
	userID, err := parseUserID(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.userRepository.GetUserByID(userID); err != nil {
		return err
	}
	users, err := load(userID)
	if err != nil {
		return err
	}
	compact := make([]models.UserCompact, len(users))
	for i := range users {
		compact[i] = users[i].ToCompact()
	}
	return success(c, http.StatusOK, echo.Map{"users": compact})
}
