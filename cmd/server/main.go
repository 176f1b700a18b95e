package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Dosada05/arena-admin/config"
	"github.com/Dosada05/arena-admin/db"
	"github.com/Dosada05/arena-admin/handlers"
	"github.com/Dosada05/arena-admin/middleware"
	"github.com/Dosada05/arena-admin/realtime"
	"github.com/Dosada05/arena-admin/repositories"
	api "github.com/Dosada05/arena-admin/routes"
	"github.com/Dosada05/arena-admin/services"
	"github.com/Dosada05/arena-admin/storage"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.Bool("tournament_auto_approve", cfg.Policy.TournamentAutoApprove),
		slog.Bool("match_auto_approve", cfg.Policy.MatchAutoApprove))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	err = db.Migrate(migrateCtx, dbConn)
	cancelMigrate()
	if err != nil {
		logger.Error("failed to apply schema", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("database ready")

	var uploader storage.FileUploader
	if cfg.R2Enabled() {
		uploader, err = storage.NewCloudflareR2Uploader(context.Background(), storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
			Endpoint:        cfg.R2Endpoint,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized", slog.String("bucket", cfg.R2BucketName))
	} else {
		logger.Warn("R2 is not configured, banner uploads are disabled")
	}

	hub := realtime.NewHub(logger)
	go hub.Run()

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	eventRepo := repositories.NewPostgresEventRepository(dbConn)
	walletRepo := repositories.NewPostgresWalletRepository(dbConn)
	depositRepo := repositories.NewPostgresDepositRepository(dbConn)
	withdrawalRepo := repositories.NewPostgresWithdrawalRepository(dbConn)

	authService := services.NewAuthService(userRepo, cfg.JWTSecretKey, cfg.TokenTTL)
	eventService := services.NewEventService(eventRepo, uploader, hub, cfg.Policy, logger)
	walletService := services.NewWalletService(
		repositories.NewTransactor(dbConn),
		walletRepo,
		depositRepo,
		withdrawalRepo,
		logger,
	)

	scheduler, err := services.NewLifecycleScheduler(eventService, cfg.LifecycleInterval, logger)
	if err != nil {
		logger.Error("failed to create lifecycle scheduler", slog.Any("error", err))
		os.Exit(1)
	}
	scheduler.Start()
	logger.Info("lifecycle scheduler started", slog.Duration("interval", cfg.LifecycleInterval))

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		api.Config{
			JWTSecret:   cfg.JWTSecretKey,
			CORSOrigins: cfg.CORSOrigins,
			LoginLimit:  middleware.NewIPRateLimiter(cfg.LoginRate, cfg.LoginBurst),
			Registry:    registry,
		},
		handlers.NewAuthHandler(authService),
		handlers.NewEventHandler(eventService),
		handlers.NewWalletHandler(walletService),
		handlers.NewWebSocketHandler(hub, cfg.CORSOrigins, logger),
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 40 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	exitCode := 0
	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			exitCode = 1
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			exitCode = 1
		}
		cancel()
	}

	if err := scheduler.Shutdown(); err != nil {
		logger.Error("failed to stop lifecycle scheduler", slog.Any("error", err))
	}
	hub.Stop()
	logger.Info("application exited")

	if exitCode != 0 {
		// os.Exit skips defers; close the pool first.
		_ = dbConn.Close()
		os.Exit(exitCode)
	}
}
