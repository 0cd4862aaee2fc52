package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"flashcard-battles"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Postgres  Postgres
	Redis     Redis
	Battle    Battle
	Suggester Suggester
}

// Postgres captures connection info for the card database.
type Postgres struct {
	Host     string `env:"PG_HOST,notEmpty"`
	Port     int    `env:"PG_PORT" envDefault:"5432"`
	User     string `env:"PG_USER,notEmpty"`
	Password string `env:"PG_PASSWORD,notEmpty"`
	Database string `env:"PG_DATABASE,notEmpty"`
	SSLMode  string `env:"PG_SSL_MODE" envDefault:"disable"`
}

// Redis holds cache + battle state configuration.
type Redis struct {
	Addr     string `env:"REDIS_ADDR,notEmpty"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"20"`
}

// Battle groups gameplay defaults for the battle core.
type Battle struct {
	Store               string        `env:"BATTLE_STORE" envDefault:"redis"` // "redis" or "memory"
	StateTTL            time.Duration `env:"BATTLE_STATE_TTL" envDefault:"2h"`
	AIBaseAccuracy      float64       `env:"AI_BASE_ACCURACY" envDefault:"0.78"`
	AIBaseDelay         time.Duration `env:"AI_BASE_DELAY_MS" envDefault:"2200ms"`
	AIJitter            time.Duration `env:"AI_JITTER_MS" envDefault:"1200ms"`
	SkillWindow         int           `env:"SKILL_WINDOW" envDefault:"50"`
	SimilarityThreshold float64       `env:"ANSWER_SIMILARITY_THRESHOLD" envDefault:"0.7"`
}

// Suggester configures the optional AI answer-suggestion service.
type Suggester struct {
	URL         string        `env:"SUGGESTER_URL"`
	APIKey      string        `env:"SUGGESTER_API_KEY"`
	Model       string        `env:"SUGGESTER_MODEL" envDefault:"gpt-4o-mini"`
	HTTPTimeout time.Duration `env:"SUGGESTER_HTTP_TIMEOUT" envDefault:"6s"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
