package router

import (
	"context"

	"github.com/anonto42/socialpulse/backend/internal/handlers"
	"github.com/anonto42/socialpulse/backend/internal/middleware"
	"github.com/anonto42/socialpulse/backend/internal/models"
	"github.com/anonto42/socialpulse/backend/internal/presence"
	"github.com/anonto42/socialpulse/backend/internal/realtime"
	"github.com/anonto42/socialpulse/backend/internal/repositories"
	"github.com/anonto42/socialpulse/backend/internal/services"
	"github.com/anonto42/socialpulse/backend/pkg/config"
	"github.com/anonto42/socialpulse/backend/validators"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the process-wide collaborators the routes are built from.
type Deps struct {
	Config     *config.Config
	Postgres   *gorm.DB
	Mongo      *mongo.Database
	Firebase   handlers.TokenVerifier // nil disables /auth/firebase-login
	Registry   *presence.Registry
	Dispatcher *realtime.Dispatcher
	Log        *zap.Logger
}

// SetupMiddleware configures global Echo middleware, validation and error rendering.
func SetupMiddleware(e *echo.Echo, cfg *config.Config, log *zap.Logger) {
	e.Validator = validators.NewValidator()
	e.HTTPErrorHandler = handlers.ErrorHandler(log)

	e.Use(eMiddleware.Recover())
	e.Use(middleware.RequestLogger(log))
	e.Use(eMiddleware.CORSWithConfig(eMiddleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins(),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	log.Debug("global middleware configured")
}

// Migrate creates the relational schema and the Mongo indexes.
func Migrate(ctx context.Context, pgdb *gorm.DB, mdb *mongo.Database) error {
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Comment{},
		&models.Like{},
		&models.Follow{},
		&models.Bookmark{},
		&models.Favorite{},
	)
	if err != nil {
		return errors.Wrap(err, "auto migrate")
	}
	if err := repositories.NewMongoNotificationRepository(mdb).EnsureIndexes(ctx); err != nil {
		return errors.Wrap(err, "notification indexes")
	}
	if err := repositories.NewMongoMessageRepository(mdb).EnsureIndexes(ctx); err != nil {
		return errors.Wrap(err, "message indexes")
	}
	return nil
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, d Deps) {
	log := d.Log

	// --- Repositories ---
	userRepo := repositories.NewPostgresUserRepository(d.Postgres)
	commentRepo := repositories.NewPostgresCommentRepository(d.Postgres)
	likeRepo := repositories.NewPostgresLikeRepository(d.Postgres)
	followRepo := repositories.NewPostgresFollowRepository(d.Postgres)
	bookmarkRepo := repositories.NewPostgresBookmarkRepository(d.Postgres)
	favoriteRepo := repositories.NewPostgresFavoriteRepository(d.Postgres)
	postRepo := repositories.NewMongoPostRepository(d.Mongo)
	notificationRepo := repositories.NewMongoNotificationRepository(d.Mongo)
	messageRepo := repositories.NewMongoMessageRepository(d.Mongo)

	// --- Services ---
	ledger := services.NewNotificationLedger(notificationRepo, userRepo, postRepo, d.Config.NotificationPageLimit, log)
	notifier := services.NewNotifier(ledger, d.Dispatcher, log)
	channel := services.NewMessageChannel(messageRepo, d.Dispatcher)
	enricher := handlers.NewPostEnricher(userRepo, likeRepo, bookmarkRepo)

	// Health check - always accessible
	e.GET("/health", handlers.NewHealthHandler(d.Registry).HealthCheck)

	// The handshake authenticates with ?token= itself.
	ws := handlers.NewWSHandler(d.Registry, d.Dispatcher, d.Config.JWTSecret, d.Config.AllowedOrigins(), log)
	e.GET("/ws", ws.Serve)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	handlers.NewAuthHandler(userRepo, d.Firebase, d.Config.JWTSecret, log).RegisterAuthRoutes(authGroup)

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(d.Config.JWTSecret))

	handlers.NewUserHandler(userRepo, followRepo, d.Registry).RegisterProfileRoutes(api)
	handlers.NewPostHandler(postRepo, enricher).RegisterPostRoutes(api)
	handlers.NewFeedHandler(postRepo, enricher).RegisterFeedRoutes(api)
	handlers.NewFollowHandler(followRepo, userRepo, notifier, log).RegisterFollowRoutes(api)
	handlers.NewCommentHandler(commentRepo, postRepo, userRepo, notifier, log).RegisterCommentRoutes(api)
	handlers.NewLikeHandler(likeRepo, postRepo, userRepo, notifier, log).RegisterLikeRoutes(api)
	handlers.NewBookmarkHandler(bookmarkRepo, favoriteRepo, postRepo, enricher).RegisterBookmarkRoutes(api)
	handlers.NewNotificationHandler(ledger, userRepo, d.Dispatcher, d.Config.NotificationPageLimit).RegisterNotificationRoutes(api)
	handlers.NewMessageHandler(channel, userRepo, followRepo).RegisterMessageRoutes(api)

	log.Info("routes configured", zap.Int("count", len(e.Routes())))
}
