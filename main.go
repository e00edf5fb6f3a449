package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/isdelr/social-be/internal/api"
	"github.com/isdelr/social-be/internal/auth"
	"github.com/isdelr/social-be/internal/config"
	"github.com/isdelr/social-be/internal/database"
	"github.com/isdelr/social-be/internal/logger"
	"github.com/isdelr/social-be/internal/maintenance"
	"github.com/isdelr/social-be/internal/services"
	"github.com/isdelr/social-be/internal/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Init("info", true)
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Init(cfg.LogLevel, !cfg.IsProduction())

	// Ensure the directory for uploaded images exists
	if err := os.MkdirAll(cfg.UploadPath, 0755); err != nil {
		log.Fatal().Err(err).Str("path", cfg.UploadPath).Msg("Failed to create upload directory")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up WebSocket Hub
	hub := websocket.NewHub()

	// Set up services
	userService := services.NewUserService(db)
	notificationService := services.NewNotificationService(db)
	sessionService := services.NewSessionService(db)
	postService := services.NewPostService(db, notificationService, hub)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.SessionTTL, sessionService)

	scheduler, err := maintenance.NewScheduler(cfg.MaintenanceCron, sessionService, notificationService, cfg.NotificationRetention)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up maintenance scheduler")
	}

	// Set up router
	router := api.NewRouter(api.Dependencies{
		Identity:       tokens,
		Tokens:         tokens,
		Users:          userService,
		Posts:          postService,
		Notifications:  notificationService,
		Sessions:       sessionService,
		Hub:            hub,
		UploadDir:      cfg.UploadPath,
		AllowedOrigins: cfg.AllowedOrigins,
		SecureCookies:  cfg.IsProduction(),
	})

	// Set up server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return hub.Run(gctx) })
	g.Go(func() error { return scheduler.Run(gctx) })
	g.Go(func() error {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen and serve: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server stopped with error")
		return
	}
	log.Info().Msg("Server exiting")
}
