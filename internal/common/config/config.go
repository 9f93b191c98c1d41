package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug  bool   `env:"DEBUG" envDefault:"false"`
	Locale string `env:"LOCALE" envDefault:"ru"`

	API struct {
		BaseURL   string        `env:"API_BASE_URL" envDefault:"http://localhost:8000"`
		Timeout   time.Duration `env:"API_TIMEOUT" envDefault:"30s"`
		AuthToken string        `env:"API_AUTH_TOKEN" envDefault:""`

		// 0 отключает ограничение частоты исходящих запросов
		RateLimitRPS   float64 `env:"API_RATE_LIMIT_RPS" envDefault:"0"`
		RateLimitBurst int     `env:"API_RATE_LIMIT_BURST" envDefault:"5"`
	}

	Telegram struct {
		// Пустой токен выключает проверку подписи init-data
		BotToken    string        `env:"BOT_TOKEN" envDefault:""`
		InitDataTTL time.Duration `env:"INIT_DATA_TTL" envDefault:"24h"`
		InitData    string        `env:"TG_INIT_DATA" envDefault:""`
		ColorScheme string        `env:"TG_COLOR_SCHEME" envDefault:""`
		BgColor     string        `env:"TG_BG_COLOR" envDefault:""`
	}

	Theme struct {
		Store      string `env:"THEME_STORE" envDefault:"memory"` // memory, redis
		StorageKey string `env:"THEME_STORAGE_KEY" envDefault:"app-theme"`
	}

	Redis struct {
		Host     string `env:"REDIS_HOST" envDefault:"localhost"`
		Port     int    `env:"REDIS_PORT" envDefault:"6379"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}

	Metrics struct {
		Addr string `env:"METRICS_ADDR" envDefault:""`
	}
}

// RedisAddr returns host:port for the redis client.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func (c *Config) validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("API_BASE_URL must not be empty")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("API_TIMEOUT must be positive, got %s", c.API.Timeout)
	}
	switch c.Theme.Store {
	case "memory", "redis":
	default:
		return fmt.Errorf("THEME_STORE must be memory or redis, got %q", c.Theme.Store)
	}
	if c.Theme.StorageKey == "" {
		return fmt.Errorf("THEME_STORAGE_KEY must not be empty")
	}
	return nil
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	// .env может отсутствовать: в production переменные задаются напрямую
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
