package config

import (
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	apperrors "github.com/KirkDiggler/squad-tactics/internal/errors"
)

// Config holds all configuration for the application
type Config struct {
	Redis       RedisConfig
	Engine      EngineConfig
	Persistence PersistenceConfig
	Catalog     CatalogConfig
}

// RedisConfig holds Redis-specific configuration.
// An empty Addr starts an embedded miniredis.
type RedisConfig struct {
	Addr      string `env:"REDIS_ADDR"`
	Password  string `env:"REDIS_PASSWORD"`
	DB        int    `env:"REDIS_DB" envDefault:"0"`
	KeyPrefix string `env:"SKIRMISH_KEY_PREFIX" envDefault:"skirmish"`
}

// EngineConfig tunes rules that content cannot express
type EngineConfig struct {
	// MaxChainedActions caps how many extra actions a combatant can chain in one turn; 0 disables chaining
	MaxChainedActions int `env:"SKIRMISH_MAX_CHAINED_ACTIONS" envDefault:"3"`
	// Seed fixes the simulation roller when non-zero
	Seed int64 `env:"SKIRMISH_SEED" envDefault:"0"`
}

// PersistenceConfig holds the save worker settings
type PersistenceConfig struct {
	QueueSize int `env:"SKIRMISH_PERSIST_QUEUE" envDefault:"32"`
}

// CatalogConfig points at an optional content directory overriding the embedded catalog
type CatalogConfig struct {
	Dir string `env:"SKIRMISH_CATALOG_DIR"`
}

// Load loads configuration from a .env file (if present) and environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("[CONFIG] No .env file loaded: %v", err)
	}

	return FromEnv()
}

// FromEnv parses the environment without touching .env files
func FromEnv() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, apperrors.WrapWithCode(err, apperrors.CodeInvalidArgument, "failed to parse environment")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks cross-field constraints
func (c *Config) Validate() error {
	if c.Engine.MaxChainedActions < 0 {
		return apperrors.InvalidArgumentf("SKIRMISH_MAX_CHAINED_ACTIONS must be >= 0, got %d", c.Engine.MaxChainedActions)
	}
	if c.Persistence.QueueSize < 1 {
		return apperrors.InvalidArgumentf("SKIRMISH_PERSIST_QUEUE must be >= 1, got %d", c.Persistence.QueueSize)
	}
	return nil
}

// UseRedis reports whether a Redis address was configured
func (c *Config) UseRedis() bool {
	return c.Redis.Addr != ""
}
