package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var (
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is required when DB_DRIVER=postgres")
	ErrMissingSQLitePath  = errors.New("SQLITE_PATH is required when DB_DRIVER=sqlite")
	ErrUnknownDriver      = errors.New("DB_DRIVER must be postgres or sqlite")
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort            string `env:"HTTP_PORT" envDefault:"8080"`
	DBDriver            string `env:"DB_DRIVER" envDefault:"postgres"`
	DatabaseURL         string `env:"DATABASE_URL"`
	SQLitePath          string `env:"SQLITE_PATH"`
	RedisAddr           string `env:"REDIS_ADDR"`
	RedisPassword       string `env:"REDIS_PASSWORD"`
	RedisDB             int    `env:"REDIS_DB" envDefault:"0"`
	PoolCacheTTLSeconds int    `env:"POOL_CACHE_TTL_SECONDS" envDefault:"30"`
	RankTimeoutMS       int    `env:"RANK_TIMEOUT_MS" envDefault:"2000"`
	JWTSecret           string `env:"JWT_SECRET"`
	JWTAccessTTLMinutes int    `env:"JWT_ACCESS_TTL_MINUTES" envDefault:"15"`
	RateLimitPerMinute  int    `env:"RATE_LIMIT_PER_MINUTE" envDefault:"120"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate revisa los requisitos que dependen del driver elegido.
func (c *Config) Validate() error {
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	switch c.DBDriver {
	case DriverPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return ErrMissingDatabaseURL
		}
	case DriverSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return ErrMissingSQLitePath
		}
	default:
		return fmt.Errorf("%w: got %q", ErrUnknownDriver, c.DBDriver)
	}
	return nil
}

func (c *Config) PoolCacheTTL() time.Duration {
	return time.Duration(c.PoolCacheTTLSeconds) * time.Second
}

func (c *Config) RankTimeout() time.Duration {
	return time.Duration(c.RankTimeoutMS) * time.Millisecond
}

func (c *Config) JWTAccessTTL() time.Duration {
	return time.Duration(c.JWTAccessTTLMinutes) * time.Minute
}
