package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath   string     `env:"DB_PATH" envDefault:"data/pickup.db"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`

	// RedisURL enables XP awarding when set.
	RedisURL  string        `env:"REDIS_URL"`
	XPTimeout time.Duration `env:"XP_TIMEOUT" envDefault:"2s"`

	PublicURL   string   `env:"PUBLIC_URL" envDefault:"http://localhost:8080"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`

	CASRetries int  `env:"CAS_RETRIES" envDefault:"3"`
	SeedDemo   bool `env:"SEED_DEMO" envDefault:"false"`
}

// Load reads the environment, after filling it from the given .env files.
// Missing files are skipped; variables already set win over file values.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading %s: %w", f, err)
		}
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.CASRetries < 0 {
		return nil, fmt.Errorf("CAS_RETRIES must not be negative, got %d", cfg.CASRetries)
	}
	if cfg.XPTimeout <= 0 {
		return nil, fmt.Errorf("XP_TIMEOUT must be positive, got %s", cfg.XPTimeout)
	}
	return &cfg, nil
}
