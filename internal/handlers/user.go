package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/anonto42/socialpulse/backend/internal/apperrors"
	"github.com/anonto42/socialpulse/backend/internal/models"
	"github.com/anonto42/socialpulse/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

const (
	maxSearchResults = 50
	suggestionLimit  = 5
)

// OnlineLister reports the users currently connected. *presence.Registry satisfies it.
type OnlineLister interface {
	ListOnline() []uint
}

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	userRepository   repositories.UserRepository
	followRepository repositories.FollowRepository
	presence         OnlineLister
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, followRepo repositories.FollowRepository, presence OnlineLister) *UserHandler {
	return &UserHandler{userRepository: userRepo, followRepository: followRepo, presence: presence}
}

// RegisterProfileRoutes registers user profile-related routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile", h.GetProfile)
	g.PUT("/profile", h.UpdateProfile)
	g.GET("/users/search", h.SearchUsers)
	g.GET("/users/online", h.GetOnlineUsers)
	g.GET("/users/suggested", h.GetSuggestedUsers)
	g.GET("/users/:id", h.GetUser)
}

func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := parseUserID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.userRepository.GetUserByID(id)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, user)
}

// GetProfile retrieves the authenticated user's profile
func (h *UserHandler) GetProfile(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	user, err := h.userRepository.GetUserByID(userID)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, user)
}

// UpdateProfile updates the authenticated user's profile
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var req models.UpdateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByID(userID)
	if err != nil {
		return err
	}
	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Bio != "" {
		user.Bio = req.Bio
	}
	if req.ProfilePicture != "" {
		user.ProfilePicture = req.ProfilePicture
	}

	if err := h.userRepository.UpdateUser(user); err != nil {
		return err
	}
	return success(c, http.StatusOK, user)
}

// SearchUsers searches users by name, username or email.
func (h *UserHandler) SearchUsers(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	if query == "" {
		return apperrors.Validation("Search query 'q' is required")
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > maxSearchResults {
		limit = 20
	}

	users, err := h.userRepository.SearchUsers(query, limit)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, echo.Map{"users": compactUsers(users)})
}

// GetSuggestedUsers lists a few accounts the caller does not follow yet.
func (h *UserHandler) GetSuggestedUsers(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	if _, err := h.userRepository.GetUserByID(userID); err != nil {
		return err
	}

	users, err := h.followRepository.GetSuggestions(userID, suggestionLimit)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, echo.Map{"users": compactUsers(users)})
}

func compactUsers(users []models.User) []models.UserCompact {
	compact := make([]models.UserCompact, len(users))
	for i := range users {
		compact[i] = users[i].ToCompact()
	}
	return compact
}

// GetOnlineUsers lists users with a live connection to this process.
func (h *UserHandler) GetOnlineUsers(c echo.Context) error {
	online := h.presence.ListOnline()
	return success(c, http.StatusOK, echo.Map{"users": online, "count": len(online)})
}
