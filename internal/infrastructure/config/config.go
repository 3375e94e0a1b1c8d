package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,        default=8080"`
	Env      string `env:"ENV,         default=development"`
	LogLevel string `env:"LOG_LEVEL,   default=info"`

	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
	Audit AuditConfig
}

type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,   default=24h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI,   default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,    default=clinic_system"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR,  default=localhost:6379"`
	DB   int    `env:"REDIS_DB,    default=0"`
}

type AuditConfig struct {
	BufferSize int `env:"AUDIT_BUFFER_SIZE, default=256"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
