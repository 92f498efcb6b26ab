package handlers

import (
	"net/http"

	"github.com/anonto42/socialpulse/backend/internal/models"
	"github.com/anonto42/socialpulse/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// BookmarkHandler serves bookmarks and favorites. Both are private per-user toggles on a
// post and never notify the author.
type BookmarkHandler struct {
	bookmarkRepository repositories.BookmarkRepository
	favoriteRepository repositories.FavoriteRepository
	postRepository     repositories.PostRepository
	enricher           *PostEnricher
}

func NewBookmarkHandler(bookmarkRepo repositories.BookmarkRepository, favoriteRepo repositories.FavoriteRepository, postRepo repositories.PostRepository, enricher *PostEnricher) *BookmarkHandler {
	return &BookmarkHandler{
		bookmarkRepository: bookmarkRepo,
		favoriteRepository: favoriteRepo,
		postRepository:     postRepo,
		enricher:           enricher,
	}
}

// RegisterBookmarkRoutes registers bookmark and favorite routes
func (h *BookmarkHandler) RegisterBookmarkRoutes(g *echo.Group) {
	g.POST("/posts/:id/bookmark", h.ToggleBookmark)
	g.GET("/posts/:id/bookmark", h.CheckBookmark)
	g.GET("/bookmarks", h.GetBookmarks)

	g.POST("/posts/:id/favorite", h.ToggleFavorite)
	g.GET("/posts/:id/favorite", h.CheckFavorite)
	g.GET("/favorites", h.GetFavorites)
}

func (h *BookmarkHandler) ToggleBookmark(c echo.Context) error {
	return h.toggle(c, "bookmarked", h.bookmarkRepository.ToggleBookmark)
}

func (h *BookmarkHandler) ToggleFavorite(c echo.Context) error {
	return h.toggle(c, "favorited", h.favoriteRepository.ToggleFavorite)
}

func (h *BookmarkHandler) CheckBookmark(c echo.Context) error {
	return h.check(c, "bookmarked", h.bookmarkRepository.IsBookmarked)
}

func (h *BookmarkHandler) CheckFavorite(c echo.Context) error {
	return h.check(c, "favorited", h.favoriteRepository.IsFavorite)
}

func (h *BookmarkHandler) GetBookmarks(c echo.Context) error {
	return h.list(c, h.bookmarkRepository.GetBookmarkedPostIDs)
}

func (h *BookmarkHandler) GetFavorites(c echo.Context) error {
	return h.list(c, h.favoriteRepository.GetFavoritePostIDs)
}

func (h *BookmarkHandler) toggle(c echo.Context, key string, flip func(uint, string) (bool, error)) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	postID := c.Param("id")
	if _, err := h.postRepository.GetPostByID(c.Request().Context(), postID); err != nil {
		return err
	}

	on, err := flip(userID, postID)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, echo.Map{key: on})
}

func (h *BookmarkHandler) check(c echo.Context, key string, is func(uint, string) (bool, error)) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	on, err := is(userID, c.Param("id"))
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, echo.Map{key: on})
}

// list returns the user's posts in save order. Posts deleted since are skipped.
func (h *BookmarkHandler) list(c echo.Context, ids func(uint) ([]string, error)) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	postIDs, err := ids(userID)
	if err != nil {
		return err
	}
	byID, err := h.postRepository.GetPostsByIDs(ctx, postIDs)
	if err != nil {
		return err
	}

	posts := make([]models.Post, 0, len(postIDs))
	for _, id := range postIDs {
		if p, ok := byID[id]; ok {
			posts = append(posts, p)
		}
	}

	enriched, err := h.enricher.enrich(ctx, userID, posts)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, echo.Map{"posts": enriched})
}
