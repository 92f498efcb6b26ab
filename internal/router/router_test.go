package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anonto42/socialpulse/backend/internal/middleware"
	"github.com/anonto42/socialpulse/backend/internal/models"
	"github.com/anonto42/socialpulse/backend/internal/presence"
	"github.com/anonto42/socialpulse/backend/internal/realtime"
	"github.com/anonto42/socialpulse/backend/pkg/config"
	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestServer wires the real routes over SQLite and a Mongo client that is never
// contacted: only routes that stay on the relational side are exercised here.
func newTestServer(t *testing.T) (*echo.Echo, *gorm.DB, *config.Config) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Comment{}, &models.Like{},
		&models.Follow{}, &models.Bookmark{}, &models.Favorite{}))

	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI("mongodb://127.0.0.1:1"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	cfg := &config.Config{JWTSecret: "router-secret", NotificationPageLimit: 10, CORSOrigins: "http://localhost:5173"}
	log := zap.NewNop()
	registry := presence.NewRegistry()

	e := echo.New()
	SetupMiddleware(e, cfg, log)
	SetupRoutes(e, Deps{
		Config:     cfg,
		Postgres:   db,
		Mongo:      client.Database("socialpulse_test"),
		Registry:   registry,
		Dispatcher: realtime.NewDispatcher(registry, log),
		Log:        log,
	})
	return e, db, cfg
}

func do(e *echo.Echo, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealthIsPublic(t *testing.T) {
	e, _, _ := newTestServer(t)

	rec := do(e, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	e, _, _ := newTestServer(t)

	rec := do(e, http.MethodGet, "/api/v1/profile", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["message"])
}

func TestSignupThenProfile(t *testing.T) {
	e, _, _ := newTestServer(t)

	rec := do(e, http.MethodPost, "/api/v1/auth/signup",
		`{"name":"Alice","username":"alice","email":"alice@example.com","password":"password123"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var signup struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &signup))
	require.NotEmpty(t, signup.Data.Token)

	rec = do(e, http.MethodGet, "/api/v1/profile", "", signup.Data.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"alice"`)

	rec = do(e, http.MethodGet, "/api/v1/users/online", "", signup.Data.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":0`)
}

func TestFirebaseLoginDisabledWithoutVerifier(t *testing.T) {
	e, _, _ := newTestServer(t)

	rec := do(e, http.MethodPost, "/api/v1/auth/firebase-login", `{"idToken":"x"}`, "")
	assert.NotEqual(t, http.StatusOK, rec.Code)
}

func TestValidationErrorsAreRendered(t *testing.T) {
	e, _, cfg := newTestServer(t)

	token, err := middleware.GenerateToken(cfg.JWTSecret, &models.User{ID: 1})
	require.NoError(t, err)

	rec := do(e, http.MethodPut, "/api/v1/profile", `{"profile_picture":"not a url"}`, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "ProfilePicture")
}
