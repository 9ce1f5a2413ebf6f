package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// R2Config - параметры Cloudflare R2. Пустой AccountID отключает публикацию экспортов.
type R2Config struct {
	AccountID       string `env:"ACCOUNT_ID"`
	AccessKeyID     string `env:"ACCESS_KEY_ID"`
	SecretAccessKey string `env:"SECRET_ACCESS_KEY"`
	BucketName      string `env:"BUCKET_NAME"`
	PublicBaseURL   string `env:"PUBLIC_BASE_URL"`
}

func (c R2Config) Enabled() bool {
	return c.AccountID != ""
}

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	StorageDriver   string        `env:"STORAGE_DRIVER" envDefault:"postgres"`
	DatabaseURL     string        `env:"DATABASE_URL"`
	DBConnTimeout   time.Duration `env:"DB_CONN_TIMEOUT" envDefault:"5s"`
	JWTSecretKey    string        `env:"JWT_SECRET_KEY"`
	ServerPort      int           `env:"SERVER_PORT" envDefault:"8080"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	AllowedOrigins  []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	R2              R2Config      `envPrefix:"R2_"`
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	c.StorageDriver = strings.ToLower(strings.TrimSpace(c.StorageDriver))
	switch c.StorageDriver {
	case StorageDriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL environment variable is not set")
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", StorageDriverPostgres, StorageDriverMemory, c.StorageDriver)
	}

	if c.JWTSecretKey == "" {
		return errors.New("JWT_SECRET_KEY environment variable is not set")
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.ServerPort)
	}

	if c.R2.Enabled() && (c.R2.AccessKeyID == "" || c.R2.SecretAccessKey == "" || c.R2.BucketName == "" || c.R2.PublicBaseURL == "") {
		return errors.New("R2_ACCOUNT_ID is set but the rest of the R2_* settings are incomplete")
	}
	return nil
}
