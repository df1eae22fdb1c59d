package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth      AuthConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
}

type AuthConfig struct {
	AccessSecret  string        `env:"JWT_ACCESS_SECRET"`
	RefreshSecret string        `env:"JWT_REFRESH_SECRET"`
	AccessTTL     time.Duration `env:"JWT_ACCESS_TTL,  default=15m"`
	RefreshTTL    time.Duration `env:"JWT_REFRESH_TTL, default=168h"`
	Issuer        string        `env:"JWT_ISSUER,   default=fleet-tracking"`
	Audience      string        `env:"JWT_AUDIENCE, default=fleet-dashboard"`
	Leeway        time.Duration `env:"JWT_LEEWAY,   default=30s"`
	BcryptCost    int           `env:"BCRYPT_COST,  default=12"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=fleet_tracking"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type RateLimitConfig struct {
	LoginLimit     int           `env:"RATE_LIMIT_LOGIN,           default=5"`
	LoginWindow    time.Duration `env:"RATE_LIMIT_LOGIN_WINDOW,    default=15m"`
	RegisterLimit  int           `env:"RATE_LIMIT_REGISTER,        default=3"`
	RegisterWindow time.Duration `env:"RATE_LIMIT_REGISTER_WINDOW, default=1h"`
	APILimit       int           `env:"RATE_LIMIT_API,             default=100"`
	APIWindow      time.Duration `env:"RATE_LIMIT_API_WINDOW,      default=15m"`
}

// Load reads configuration from environment variables using go-envconfig
// and validates it. Configuration problems are fatal at startup, never
// discovered mid-request.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// IsProduction reports whether the process runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate enforces the startup contract: production never runs on
// hard-coded or missing secrets, and the hashing cost stays in bcrypt's
// supported range.
func (c *Config) Validate() error {
	if c.IsProduction() {
		if c.Auth.AccessSecret == "" {
			return errors.New("JWT_ACCESS_SECRET is required in production")
		}
		if c.Auth.RefreshSecret == "" {
			return errors.New("JWT_REFRESH_SECRET is required in production")
		}
		if c.Auth.AccessSecret == c.Auth.RefreshSecret {
			return errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ")
		}
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.Auth.AccessTTL <= 0 || c.Auth.RefreshTTL <= 0 {
		return errors.New("token TTLs must be positive")
	}
	return nil
}
