package handlers

import (
	"context"
	"net/http"

	"github.com/anonto42/socialpulse/backend/internal/models"
	"github.com/anonto42/socialpulse/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// EnrichedPost is a post with author info and viewer-specific flags
type EnrichedPost struct {
	models.Post
	Author       *models.UserCompact `json:"author,omitempty"`
	IsLiked      bool                `json:"is_liked"`
	IsBookmarked bool                `json:"is_bookmarked"`
}

// PostEnricher joins Mongo posts with their relational side.
type PostEnricher struct {
	users     repositories.UserRepository
	likes     repositories.LikeRepository
	bookmarks repositories.BookmarkRepository
}

func NewPostEnricher(users repositories.UserRepository, likes repositories.LikeRepository, bookmarks repositories.BookmarkRepository) *PostEnricher {
	return &PostEnricher{users: users, likes: likes, bookmarks: bookmarks}
}

func (e *PostEnricher) enrich(_ context.Context, viewerID uint, posts []models.Post) ([]EnrichedPost, error) {
	out := make([]EnrichedPost, len(posts))
	if len(posts) == 0 {
		return out, nil
	}

	authorIDs := make([]uint, 0, len(posts))
	for _, p := range posts {
		authorIDs = append(authorIDs, p.AuthorID)
	}
	authors, err := e.users.GetUsersByIDs(authorIDs)
	if err != nil {
		return nil, err
	}

	bookmarked := map[string]bool{}
	if viewerID > 0 {
		ids, err := e.bookmarks.GetBookmarkedPostIDs(viewerID)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			bookmarked[id] = true
		}
	}

	for i, p := range posts {
		pid := p.ID.Hex()
		out[i] = EnrichedPost{Post: p, IsBookmarked: bookmarked[pid]}
		if a, ok := authors[p.AuthorID]; ok {
			compact := a.ToCompact()
			out[i].Author = &compact
		}
		if viewerID > 0 {
			liked, err := e.likes.HasUserLikedPost(pid, viewerID)
			if err != nil {
				return nil, err
			}
			out[i].IsLiked = liked
		}
	}
	return out, nil
}

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	postRepository repositories.PostRepository
	enricher       *PostEnricher
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(postRepo repositories.PostRepository, enricher *PostEnricher) *FeedHandler {
	return &FeedHandler{postRepository: postRepo, enricher: enricher}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// GetFeed returns enriched feed posts for the current user
func (h *FeedHandler) GetFeed(c echo.Context) error {
	ctx := c.Request().Context()
	page, limit := pageParams(c, 10, 50)
	skip := int64((page - 1) * limit)

	posts, err := h.postRepository.GetAllPosts(ctx, skip, int64(limit))
	if err != nil {
		return err
	}
	total, err := h.postRepository.CountPosts(ctx)
	if err != nil {
		return err
	}

	enriched, err := h.enricher.enrich(ctx, getUserIDFromContext(c), posts)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"posts": enriched,
		},
		"meta": paginationMeta(page, limit, total),
	})
}
