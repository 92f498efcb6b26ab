package handlers

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/socialpulse/backend/internal/apperrors"
	"github.com/anonto42/socialpulse/backend/internal/middleware"
	"github.com/anonto42/socialpulse/backend/internal/models"
	"github.com/anonto42/socialpulse/backend/internal/repositories"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// TokenVerifier checks Firebase ID tokens. *auth.Client satisfies it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	userRepository repositories.UserRepository
	firebaseAuth   TokenVerifier
	jwtSecret      string
	log            *zap.Logger
}

// NewAuthHandler creates a new AuthHandler. A nil verifier disables firebase login.
func NewAuthHandler(userRepo repositories.UserRepository, verifier TokenVerifier, jwtSecret string, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		firebaseAuth:   verifier,
		jwtSecret:      jwtSecret,
		log:            log,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/signup", h.Signup)
	g.POST("/signin", h.SignIn)
	if h.firebaseAuth != nil {
		g.POST("/firebase-login", h.FirebaseLogin)
	}
}

// Signup handles local user registration with email and password
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	email := strings.ToLower(req.Email)
	if _, err := h.userRepository.GetUserByEmail(email); err == nil {
		return apperrors.Conflict("User with this email already registered")
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}
	if _, err := h.userRepository.GetUserByUsername(req.Username); err == nil {
		return apperrors.Conflict("Username is already taken")
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hash password")
	}

	user := &models.User{
		Name:     req.Name,
		Username: req.Username,
		Email:    email,
		Password: string(hashedPassword),
	}
	if err := h.userRepository.CreateUser(user); err != nil {
		return err
	}

	return h.issueToken(c, http.StatusCreated, user)
}

// SignIn handles local user authentication with email and password
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req models.SigninRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByEmail(strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.Unauthorized("Invalid email or password")
		}
		return err
	}
	if user.Password == "" {
		return apperrors.Unauthorized("Invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return apperrors.Unauthorized("Invalid email or password")
	}

	return h.issueToken(c, http.StatusOK, user)
}

// FirebaseLoginRequest defines the request body for Firebase login
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// FirebaseLogin verifies a Firebase ID token, links or creates the local account and
// issues a local JWT.
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	var req FirebaseLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, err := h.firebaseAuth.VerifyIDToken(c.Request().Context(), req.IDToken)
	if err != nil {
		h.log.Debug("firebase token rejected", zap.Error(err))
		return apperrors.Unauthorized("Invalid Firebase ID token")
	}

	email, _ := token.Claims["email"].(string)
	if email == "" {
		return apperrors.Validation("Firebase account has no email")
	}
	email = strings.ToLower(email)
	name, _ := token.Claims["name"].(string)
	firebaseUID := token.UID

	user, err := h.userRepository.GetUserByFirebaseUID(firebaseUID)
	switch {
	case err == nil:
		// known account
	case errors.Is(err, apperrors.ErrNotFound):
		user, err = h.userRepository.GetUserByEmail(email)
		switch {
		case err == nil:
			user.FirebaseUID = &firebaseUID
			if err := h.userRepository.UpdateUser(user); err != nil {
				return err
			}
		case errors.Is(err, apperrors.ErrNotFound):
			if name == "" {
				name = strings.Split(email, "@")[0]
			}
			user = &models.User{
				Name:        name,
				Username:    generatedUsername(email),
				Email:       email,
				FirebaseUID: &firebaseUID,
			}
			if err := h.userRepository.CreateUser(user); err != nil {
				return err
			}
		default:
			return err
		}
	default:
		return err
	}

	return h.issueToken(c, http.StatusOK, user)
}

func (h *AuthHandler) issueToken(c echo.Context, status int, user *models.User) error {
	token, err := middleware.GenerateToken(h.jwtSecret, user)
	if err != nil {
		return errors.Wrap(err, "sign token")
	}
	return success(c, status, echo.Map{"token": token, "user": user})
}

// generatedUsername derives a unique handle for accounts created through firebase.
func generatedUsername(email string) string {
	local := strings.Split(email, "@")[0]
	var b strings.Builder
	for _, r := range local {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	base := b.String()
	if len(base) > 40 {
		base = base[:40]
	}
	return base + uuid.NewString()[:8]
}
