package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Storage backends accepted by STORAGE_BACKEND.
const (
	StorageFile   = "file"
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

// App holds core runtime configuration for the triviago client.
type App struct {
	Name     string `env:"APP_NAME" envDefault:"triviago"`
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"warn"`

	// MetricsAddr enables the /healthz + /metrics listener while a quiz is running.
	MetricsAddr string `env:"METRICS_ADDR" envDefault:""`

	API     API
	Storage Storage
	Redis   Redis
	Quiz    Quiz
}

// API points at the two remote services the client talks to.
type API struct {
	AuthRoot    string        `env:"TRIVIAGO_API" envDefault:"http://localhost:8000"`
	AuthVersion string        `env:"TRIVIAGO_API_VERSION" envDefault:"api/v1"`
	OpenTDBRoot string        `env:"OPENTDB_ROOT" envDefault:"https://opentdb.com"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"10s"`
	CategoryTTL time.Duration `env:"CATEGORY_CACHE_TTL" envDefault:"24h"`
}

// Storage selects where session checkpoints and credentials live.
type Storage struct {
	Backend  string `env:"STORAGE_BACKEND" envDefault:"file"`
	FilePath string `env:"STORAGE_FILE" envDefault:"~/.triviago/state.json"`
}

// Redis holds connection info when STORAGE_BACKEND=redis.
type Redis struct {
	Addr      string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	DB        int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize  int    `env:"REDIS_POOL_SIZE" envDefault:"4"`
	KeyPrefix string `env:"REDIS_KEY_PREFIX" envDefault:"triviago:"`
}

// Quiz groups configuration-page defaults.
type Quiz struct {
	DefaultAmount     int    `env:"DEFAULT_QUESTION_COUNT" envDefault:"5"`
	DefaultDifficulty string `env:"DEFAULT_DIFFICULTY" envDefault:"medium"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *App) validate() error {
	switch c.Storage.Backend {
	case StorageFile, StorageRedis, StorageMemory:
	default:
		return fmt.Errorf("parse config: unknown STORAGE_BACKEND %q", c.Storage.Backend)
	}
	if c.API.HTTPTimeout <= 0 {
		return fmt.Errorf("parse config: HTTP_TIMEOUT must be positive")
	}
	return nil
}
