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

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	likeRepository repositories.LikeRepository
	postRepository repositories.PostRepository
	userRepository repositories.UserRepository
	notifier       *services.Notifier
	log            *zap.Logger
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(likeRepo repositories.LikeRepository, postRepo repositories.PostRepository, userRepo repositories.UserRepository, notifier *services.Notifier, log *zap.Logger) *LikeHandler {
	return &LikeHandler{
		likeRepository: likeRepo,
		postRepository: postRepo,
		userRepository: userRepo,
		notifier:       notifier,
		log:            log,
	}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:id/likes", h.LikePost)
	g.DELETE("/posts/:id/likes", h.UnlikePost)
	g.GET("/posts/:id/likes/status", h.GetUserLikeStatusForPost)
}

// LikePost records the like, then tells the author.
func (h *LikeHandler) LikePost(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	postID := c.Param("id")

	post, err := h.postRepository.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}
	actor, err := h.userRepository.GetUserByID(userID)
	if err != nil {
		return err
	}

	hasLiked, err := h.likeRepository.HasUserLikedPost(postID, userID)
	if err != nil {
		return err
	}
	if hasLiked {
		return apperrors.Conflict("Post already liked by this user")
	}

	like := &models.Like{PostID: postID, UserID: userID}
	if err := h.likeRepository.CreateLike(like); err != nil {
		return err
	}
	if err := h.postRepository.AdjustLikesCount(ctx, postID, 1); err != nil {
		h.log.Warn("failed to increment likes count", zap.String("post_id", postID), zap.Error(err))
	}

	h.notifier.Notify(ctx, services.Activity{
		Kind:        models.NotificationLike,
		Actor:       actor.ToCompact(),
		RecipientID: post.AuthorID,
		PostID:      postID,
		Message:     actor.Name + " liked your post",
	})

	return success(c, http.StatusCreated, like)
}

// UnlikePost removes the like. The author gets a live "dislike" notification but no ledger record.
func (h *LikeHandler) UnlikePost(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	postID := c.Param("id")

	post, err := h.postRepository.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}
	actor, err := h.userRepository.GetUserByID(userID)
	if err != nil {
		return err
	}

	if err := h.likeRepository.DeleteLike(postID, userID); err != nil {
		return err
	}
	if err := h.postRepository.AdjustLikesCount(ctx, postID, -1); err != nil {
		h.log.Warn("failed to decrement likes count", zap.String("post_id", postID), zap.Error(err))
	}

	h.notifier.Signal(ctx, services.Activity{
		Kind:        models.EventDislike,
		Actor:       actor.ToCompact(),
		RecipientID: post.AuthorID,
		PostID:      postID,
		Message:     actor.Name + " unliked your post",
	})

	return success(c, http.StatusOK, echo.Map{"liked": false})
}

// GetUserLikeStatusForPost reports whether the caller liked the post and the like count.
func (h *LikeHandler) GetUserLikeStatusForPost(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	postID := c.Param("id")

	if _, err := h.postRepository.GetPostByID(c.Request().Context(), postID); err != nil {
		return err
	}
	liked, err := h.likeRepository.HasUserLikedPost(postID, userID)
	if err != nil {
		return err
	}
	count, err := h.likeRepository.GetLikesCountByPostID(postID)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, echo.Map{"liked": liked, "likes_count": count})
}
