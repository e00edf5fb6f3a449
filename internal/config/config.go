package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort            int           `env:"PORT" envDefault:"8080"`
	DatabasePath          string        `env:"DATABASE_PATH" envDefault:"./social.db"`
	UploadPath            string        `env:"UPLOAD_PATH" envDefault:"./uploads"` // Base path for uploaded post images
	JWTSecret             string        `env:"JWT_SECRET,required,notEmpty"`
	SessionTTL            time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	AllowedOrigins        []string      `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	AppEnv                string        `env:"APP_ENV" envDefault:"development"`
	LogLevel              string        `env:"LOG_LEVEL" envDefault:"info"`
	MaintenanceCron       string        `env:"MAINTENANCE_CRON" envDefault:"@hourly"`
	NotificationRetention time.Duration `env:"NOTIFICATION_RETENTION" envDefault:"720h"`
}

// Load loads configuration from environment variables or sets defaults.
// Values from a .env file in the working directory are used when present;
// variables already set in the environment win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.ServerPort <= 0 || cfg.ServerPort > 65535 {
		return nil, fmt.Errorf("invalid PORT %d", cfg.ServerPort)
	}
	if cfg.SessionTTL <= 0 {
		return nil, errors.New("SESSION_TTL must be positive")
	}
	return &cfg, nil
}

// IsProduction reports whether cookies and logs should use production settings.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
