package config

import (
	"fmt"
	"time"

	"github.com/utafrali/storefront/pkg/database"
	pkgconfig "github.com/utafrali/storefront/pkg/config"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"json"`

	// HTTP server
	HTTPPort           int           `env:"STOREFRONT_HTTP_PORT" envDefault:"8080"`
	RequestTimeout     time.Duration `env:"STOREFRONT_REQUEST_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout    time.Duration `env:"STOREFRONT_SHUTDOWN_TIMEOUT" envDefault:"15s"`
	HealthCheckTimeout time.Duration `env:"HEALTH_CHECK_TIMEOUT" envDefault:"5s"`
	CORSOrigins        []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`

	// Persistence
	StoreBackend string        `env:"STOREFRONT_STORE" envDefault:"memory"`
	RedisHost    string        `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort    int           `env:"REDIS_PORT" envDefault:"6379"`
	RedisPass    string        `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB      int           `env:"REDIS_DB" envDefault:"0"`
	StateTTL     time.Duration `env:"STOREFRONT_STATE_TTL" envDefault:"720h"`

	// Kafka
	KafkaEnabled bool     `env:"KAFKA_ENABLED" envDefault:"false"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Sessions
	SessionIdleTTL     time.Duration `env:"SESSION_IDLE_TTL" envDefault:"30m"`
	SessionSweep       time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"1m"`
	MaxSessions        int           `env:"SESSION_MAX" envDefault:"1000"`
	SessionCreateRPS   float64       `env:"SESSION_CREATE_RPS" envDefault:"5"`
	SessionCreateBurst int           `env:"SESSION_CREATE_BURST" envDefault:"10"`
	CarouselInterval   time.Duration `env:"CAROUSEL_INTERVAL" envDefault:"3s"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Redis returns the connection settings for the Redis store.
func (c *Config) Redis() database.RedisConfig {
	rc := database.DefaultRedisConfig()
	rc.Host = c.RedisHost
	rc.Port = c.RedisPort
	rc.Password = c.RedisPass
	rc.DB = c.RedisDB
	return rc
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	switch c.StoreBackend {
	case StoreMemory:
	case StoreRedis:
		if c.RedisPort < 1 || c.RedisPort > 65535 {
			return fmt.Errorf("invalid Redis port: %d", c.RedisPort)
		}
	default:
		return fmt.Errorf("STOREFRONT_STORE must be %q or %q, got %q", StoreMemory, StoreRedis, c.StoreBackend)
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}
	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when KAFKA_ENABLED is set")
	}
	if c.SessionIdleTTL <= 0 {
		return fmt.Errorf("SESSION_IDLE_TTL must be positive")
	}
	if c.SessionSweep <= 0 {
		return fmt.Errorf("SESSION_SWEEP_INTERVAL must be positive")
	}
	if c.MaxSessions < 1 {
		return fmt.Errorf("SESSION_MAX must be at least 1")
	}
	if c.SessionCreateRPS < 0 {
		return fmt.Errorf("SESSION_CREATE_RPS must not be negative")
	}
	if c.SessionCreateRPS > 0 && c.SessionCreateBurst < 1 {
		return fmt.Errorf("SESSION_CREATE_BURST must be at least 1 when rate limiting is enabled")
	}
	if c.CarouselInterval < 300*time.Millisecond {
		return fmt.Errorf("CAROUSEL_INTERVAL must be at least 300ms, got %s", c.CarouselInterval)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("STOREFRONT_REQUEST_TIMEOUT must be positive")
	}
	return nil
}
