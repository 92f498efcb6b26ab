package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/anonto42/socialpulse/backend/internal/apperrors"
	"github.com/anonto42/socialpulse/backend/internal/models"
	"github.com/anonto42/socialpulse/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository repositories.PostRepository
	enricher       *PostEnricher
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, enricher *PostEnricher) *PostHandler {
	return &PostHandler{
		postRepository: postRepo,
		enricher:       enricher,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
	g.GET("/posts", h.GetPosts) // ?user_id= narrows to one author
	g.DELETE("/posts/:id", h.DeletePost)
}

// CreatePost creates a new post
func (h *PostHandler) CreatePost(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var req models.CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	now := time.Now().UTC()
	post := &models.Post{
		AuthorID:  userID,
		Caption:   req.Caption,
		ImageURL:  req.ImageURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		return err
	}
	return success(c, http.StatusCreated, post)
}

// GetPost retrieves a post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	ctx := c.Request().Context()
	post, err := h.postRepository.GetPostByID(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	enriched, err := h.enricher.enrich(ctx, getUserIDFromContext(c), []models.Post{*post})
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, enriched[0])
}

// GetPosts lists posts newest first, optionally for one author.
func (h *PostHandler) GetPosts(c echo.Context) error {
	ctx := c.Request().Context()
	page, limit := pageParams(c, 10, 50)
	skip := int64((page - 1) * limit)

	var (
		posts []models.Post
		err   error
	)
	if raw := c.QueryParam("user_id"); raw != "" {
		authorID, perr := strconv.ParseUint(raw, 10, 32)
		if perr != nil {
			return apperrors.Validation("Invalid user ID")
		}
		posts, err = h.postRepository.GetPostsByAuthor(ctx, uint(authorID), skip, int64(limit))
	} else {
		posts, err = h.postRepository.GetAllPosts(ctx, skip, int64(limit))
	}
	if err != nil {
		return err
	}

	enriched, err := h.enricher.enrich(ctx, getUserIDFromContext(c), posts)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, echo.Map{"posts": enriched})
}

// DeletePost deletes a post owned by the caller.
func (h *PostHandler) DeletePost(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	postID := c.Param("id")

	existingPost, err := h.postRepository.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}
	if existingPost.AuthorID != userID {
		return apperrors.Forbidden("You are not authorized to delete this post")
	}

	if err := h.postRepository.DeletePost(ctx, postID); err != nil {
		return err
	}
	return success(c, http.StatusOK, echo.Map{"id": postID})
}
