package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/socialpulse/backend/internal/handlers"
	"github.com/anonto42/socialpulse/backend/internal/presence"
	"github.com/anonto42/socialpulse/backend/internal/realtime"
	"github.com/anonto42/socialpulse/backend/internal/router"
	"github.com/anonto42/socialpulse/backend/pkg/config"
	"github.com/anonto42/socialpulse/backend/pkg/firebase"
	"github.com/anonto42/socialpulse/backend/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "load config")
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		return errors.Wrap(err, "build logger")
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.InitDB(cfg, log)
	if err != nil {
		return errors.Wrap(err, "initialize databases")
	}
	defer db.CloseDB()
	mongoDB := db.Mongo.Database(cfg.MongoDatabase)

	if err := router.Migrate(ctx, db.Postgres, mongoDB); err != nil {
		return err
	}

	var verifier handlers.TokenVerifier
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	if err != nil {
		return errors.Wrap(err, "initialize firebase")
	}
	if firebaseApp != nil {
		verifier = firebaseApp.AuthClient
	} else {
		log.Info("firebase credentials not configured, firebase login disabled")
	}

	registry := presence.NewRegistry()
	dispatcher := realtime.NewDispatcher(registry, log)

	rdb, err := config.InitRedis(cfg)
	if err != nil {
		return errors.Wrap(err, "initialize redis")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	router.SetupMiddleware(e, cfg, log)
	router.SetupRoutes(e, router.Deps{
		Config:     cfg,
		Postgres:   db.Postgres,
		Mongo:      mongoDB,
		Firebase:   verifier,
		Registry:   registry,
		Dispatcher: dispatcher,
		Log:        log,
	})

	g, gctx := errgroup.WithContext(ctx)

	if rdb != nil {
		defer func() { _ = rdb.Close() }()
		relay := realtime.NewRedisRelay(rdb, realtime.DefaultRelayChannel, log)
		dispatcher.UseRelay(relay)
		g.Go(func() error {
			return relay.Run(gctx, dispatcher)
		})
	} else {
		log.Info("redis not configured, live events stay on this process")
	}

	g.Go(func() error {
		log.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "http server")
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
