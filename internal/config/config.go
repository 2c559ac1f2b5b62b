package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath   string     `env:"DB_PATH" envDefault:"data/minigames.db"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`

	// RedisURL enables the result outbox stream when set.
	RedisURL     string `env:"REDIS_URL"`
	ResultStream string `env:"RESULT_STREAM" envDefault:"minigame:results"`

	PlayTokenSecret string        `env:"PLAY_TOKEN_SECRET" envDefault:"dev-play-secret"`
	PlayTokenTTL    time.Duration `env:"PLAY_TOKEN_TTL" envDefault:"4h"`
	PlayIdleTimeout time.Duration `env:"PLAY_IDLE_TIMEOUT" envDefault:"30m"`
	TickInterval    time.Duration `env:"TICK_INTERVAL" envDefault:"100ms"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`

	AdminEmail    string `env:"ADMIN_EMAIL" envDefault:"admin@example.com"`
	AdminPassword string `env:"ADMIN_PASSWORD" envDefault:"changeme"`
	SeedDemo      bool   `env:"SEED_DEMO" envDefault:"true"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.TickInterval <= 0 {
		return nil, fmt.Errorf("TICK_INTERVAL must be positive, got %s", cfg.TickInterval)
	}
	return &cfg, nil
}
