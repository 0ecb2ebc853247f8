package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,     default=8080"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// SessionSecret signs the session cookie that carries the bearer token.
	SessionSecret string `env:"SESSION_SECRET, default=dev-only-insecure-secret"`

	Upstream UpstreamConfig
	Redis    RedisConfig
}

// UpstreamConfig locates the remote task API. The original client hard-coded
// this origin; here it is environment-driven.
type UpstreamConfig struct {
	BaseURL        string `env:"UPSTREAM_BASE_URL, default=http://localhost:8000"`
	TimeoutSeconds int    `env:"UPSTREAM_TIMEOUT_SECONDS, default=15"`
}

// RedisConfig configures the optional submit-guard backend. An empty Addr
// disables Redis and selects the in-memory guard.
type RedisConfig struct {
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
