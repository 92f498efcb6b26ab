package handlers

import (
	"net/http"
	"strconv"

	"github.com/anonto42/socialpulse/backend/internal/apperrors"
	"github.com/anonto42/socialpulse/backend/internal/models"
	"github.com/anonto42/socialpulse/backend/internal/repositories"
	"github.com/anonto42/socialpulse/backend/internal/services"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const commentPreviewLen = 80

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	postRepository    repositories.PostRepository
	userRepository    repositories.UserRepository
	notifier          *services.Notifier
	log               *zap.Logger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository, userRepo repositories.UserRepository, notifier *services.Notifier, log *zap.Logger) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		postRepository:    postRepo,
		userRepository:    userRepo,
		notifier:          notifier,
		log:               log,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:id/comments", h.CreateComment)
	g.GET("/posts/:id/comments", h.GetCommentsByPostID)
	g.DELETE("/comments/:id", h.DeleteComment)
}

// CreateComment creates a new comment on a post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	postID := c.Param("id")

	var req models.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.postRepository.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}
	actor, err := h.userRepository.GetUserByID(userID)
	if err != nil {
		return err
	}

	comment := &models.Comment{
		PostID:  postID,
		UserID:  userID,
		Content: req.Content,
	}
	if err := h.commentRepository.CreateComment(comment); err != nil {
		return err
	}
	if err := h.postRepository.AdjustCommentsCount(ctx, postID, 1); err != nil {
		h.log.Warn("failed to increment comments count", zap.String("post_id", postID), zap.Error(err))
	}

	h.notifier.Notify(ctx, services.Activity{
		Kind:        models.NotificationComment,
		Actor:       actor.ToCompact(),
		RecipientID: post.AuthorID,
		PostID:      postID,
		Message:     actor.Name + " commented: " + preview(req.Content, commentPreviewLen),
	})

	return success(c, http.StatusCreated, models.CommentWithAuthor{Comment: *comment, Author: actor.ToCompact()})
}

// GetCommentsByPostID lists a post's comments oldest first with their authors.
func (h *CommentHandler) GetCommentsByPostID(c echo.Context) error {
	postID := c.Param("id")
	if _, err := h.postRepository.GetPostByID(c.Request().Context(), postID); err != nil {
		return err
	}

	comments, err := h.commentRepository.GetCommentsByPostID(postID)
	if err != nil {
		return err
	}

	ids := make([]uint, 0, len(comments))
	for _, cm := range comments {
		ids = append(ids, cm.UserID)
	}
	authors, err := h.userRepository.GetUsersByIDs(ids)
	if err != nil {
		return err
	}

	out := make([]models.CommentWithAuthor, len(comments))
	for i, cm := range comments {
		out[i] = models.CommentWithAuthor{Comment: cm}
		if a, ok := authors[cm.UserID]; ok {
			out[i].Author = a.ToCompact()
		}
	}
	return success(c, http.StatusOK, echo.Map{"comments": out})
}

// DeleteComment lets the comment author or the post author remove a comment.
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return apperrors.Validation("Invalid comment ID")
	}
	comment, err := h.commentRepository.GetCommentByID(uint(id))
	if err != nil {
		return err
	}

	if comment.UserID != userID {
		post, err := h.postRepository.GetPostByID(ctx, comment.PostID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		if post == nil || post.AuthorID != userID {
			return apperrors.Forbidden("You are not authorized to delete this comment")
		}
	}

	if err := h.commentRepository.DeleteComment(comment.ID); err != nil {
		return err
	}
	if err := h.postRepository.AdjustCommentsCount(ctx, comment.PostID, -1); err != nil {
		h.log.Warn("failed to decrement comments count", zap.String("post_id", comment.PostID), zap.Error(err))
	}
	return success(c, http.StatusOK, echo.Map{"id": comment.ID})
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
