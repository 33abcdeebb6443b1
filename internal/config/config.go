package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort    string `env:"SERVER_PORT" envDefault:"5000"`
	MySQLDSN      string `env:"MYSQL_DSN" envDefault:"user:password@tcp(localhost:3306)/gradebook?charset=utf8mb4&parseTime=True&loc=Local"`
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisPass     string `env:"REDIS_PASSWORD"`
	JWTSecret     string `env:"JWT_SECRET" envDefault:"your-secret-key"`
	PredictAPIURL string `env:"PREDICT_API_URL" envDefault:"http://127.0.0.1:5000"`
	APIBaseURL    string `env:"API_BASE_URL" envDefault:"http://localhost:5000"`
	StateFile     string `env:"STATE_FILE"`
	ResetDB       bool   `env:"RESET_DB"`
}

// Load builds Config from environment with sensible defaults. The JWT_SECRET
// default exists for local development only and must be overridden in any
// production deployment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
