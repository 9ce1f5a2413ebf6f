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
	_ "github.com/lib/pq"

	"github.com/Dosada05/tournament-scoreboard/app"
	"github.com/Dosada05/tournament-scoreboard/brackets"
	"github.com/Dosada05/tournament-scoreboard/config"
	"github.com/Dosada05/tournament-scoreboard/handlers"
	"github.com/Dosada05/tournament-scoreboard/metrics"
	api "github.com/Dosada05/tournament-scoreboard/routes"
)

func main() {
	startedAt := time.Now()

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg.LogLevel)
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.String("storage", cfg.StorageDriver))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := app.OpenStore(cfg, logger)
	if err != nil {
		logger.Error("failed to open storage", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error("failed to close storage", slog.Any("error", err))
		}
	}()

	uploader, err := app.NewUploader(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize file storage", slog.Any("error", err))
		os.Exit(1)
	}

	// Инициализация WebSocket Hub
	wsHub := brackets.NewHub(logger)
	go wsHub.Run(ctx)
	logger.Info("WebSocket hub started")

	metricsService := metrics.NewService()
	svc := app.NewServices(store, wsHub, metricsService, uploader, logger)

	router := chi.NewRouter()
	api.SetupRoutes(router, api.Handlers{
		Bracket:   handlers.NewBracketHandler(svc.Bracket),
		Group:     handlers.NewGroupHandler(svc.Groups),
		Survival:  handlers.NewSurvivalHandler(svc.Survival),
		Overview:  handlers.NewOverviewHandler(svc.Overview, svc.Export),
		WebSocket: handlers.NewWebSocketHandler(wsHub, logger),
		Metrics:   metrics.NewMetricsHandler(),
	}, api.Options{
		JWTSecret:      []byte(cfg.JWTSecretKey),
		AllowedOrigins: cfg.AllowedOrigins,
	})
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()
	metricsService.SetStartupTime(time.Since(startedAt).Seconds())

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", cfg.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
