// Package app wires configuration, storage and services for the server and the CLI.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Dosada05/tournament-scoreboard/config"
	"github.com/Dosada05/tournament-scoreboard/db"
	"github.com/Dosada05/tournament-scoreboard/metrics"
	"github.com/Dosada05/tournament-scoreboard/repositories"
	"github.com/Dosada05/tournament-scoreboard/services"
	"github.com/Dosada05/tournament-scoreboard/storage"
)

// Services are the engine services built over one store.
type Services struct {
	Bracket  services.BracketService
	Groups   services.GroupService
	Survival services.SurvivalService
	Overview services.OverviewService
	Export   services.ExportService
}

func NewLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

// OpenStore opens the configured backend. The returned closer is never nil.
func OpenStore(cfg *config.Config, logger *slog.Logger) (*repositories.Store, func() error, error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		logger.Warn("using in-memory storage; state is lost on exit")
		return repositories.NewMemoryBackedStore(), func() error { return nil }, nil
	}

	conn, err := db.Connect(cfg.DatabaseURL, cfg.DBConnTimeout)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Migrate(conn); err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to apply migrations: %w", err)
	}
	logger.Info("database connection established, migrations applied")
	return repositories.NewPostgresStore(conn), conn.Close, nil
}

// NewUploader returns nil when R2 is not configured; exports are then download-only.
func NewUploader(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.FileUploader, error) {
	if !cfg.R2.Enabled() {
		logger.Info("R2 is not configured, standings publishing disabled")
		return nil, nil
	}
	u, err := storage.NewCloudflareR2Uploader(ctx, storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2.AccountID,
		AccessKeyID:     cfg.R2.AccessKeyID,
		SecretAccessKey: cfg.R2.SecretAccessKey,
		BucketName:      cfg.R2.BucketName,
		PublicBaseURL:   cfg.R2.PublicBaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudflare R2 uploader: %w", err)
	}
	return u, nil
}

func NewServices(store *repositories.Store, notifier services.Notifier, m metrics.Metrics, uploader storage.FileUploader, logger *slog.Logger) *Services {
	deps := services.Deps{Store: store, Notifier: notifier, Metrics: m, Logger: logger}
	return &Services{
		Bracket:  services.NewBracketService(deps),
		Groups:   services.NewGroupService(deps),
		Survival: services.NewSurvivalService(deps),
		Overview: services.NewOverviewService(deps),
		Export:   services.NewExportService(deps, uploader),
	}
}
