package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends
const (
	StoreFile     = "file"
	StorePostgres = "postgres"
)

// Config holds all configuration for burnout-engine
type Config struct {
	Server    ServerConfig
	Generator GeneratorConfig
	Storage   StorageConfig
	Redis     RedisConfig
	Refresh   RefreshConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host        string
	Port        int
	CORSOrigins []string
}

// GeneratorConfig holds synthetic dataset configuration
type GeneratorConfig struct {
	Employees int
	Days      int
	Seed      int64
	Profile   string // optional YAML profile path, empty uses defaults
}

// StorageConfig holds model store configuration
type StorageConfig struct {
	Backend      string
	Dir          string // file backend
	DSN          string // postgres backend
	MaxOpenConns int
	MaxIdleConns int
}

// RedisConfig holds snapshot cache configuration. An empty address
// disables the cache.
type RedisConfig struct {
	Address  string
	Password string
	DB       int
	CacheTTL time.Duration
}

// RefreshConfig holds background refresh configuration
type RefreshConfig struct {
	Interval time.Duration
}

// Load loads configuration from a .env file when present, then from
// environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:        getEnv("SERVER_HOST", "0.0.0.0"),
			Port:        getEnvAsInt("SERVER_PORT", 8080),
			CORSOrigins: getEnvAsSlice("CORS_ORIGINS", []string{"*"}),
		},
		Generator: GeneratorConfig{
			Employees: getEnvAsInt("GENERATOR_EMPLOYEES", 50),
			Days:      getEnvAsInt("GENERATOR_DAYS", 30),
			Seed:      getEnvAsInt64("GENERATOR_SEED", 42),
			Profile:   getEnv("GENERATOR_PROFILE", ""),
		},
		Storage: StorageConfig{
			Backend:      getEnv("MODEL_STORE", StoreFile),
			Dir:          getEnv("MODEL_DIR", "./models"),
			DSN:          getEnv("DATABASE_DSN", ""),
			MaxOpenConns: getEnvAsInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Redis: RedisConfig{
			Address:  getEnv("REDIS_ADDRESS", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			CacheTTL: getEnvAsDuration("CACHE_TTL", 5*time.Minute),
		},
		Refresh: RefreshConfig{
			Interval: getEnvAsDuration("REFRESH_INTERVAL", 0),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Generator.Employees < 1 {
		return fmt.Errorf("invalid employee count: %d", c.Generator.Employees)
	}
	if c.Generator.Days < 1 {
		return fmt.Errorf("invalid day count: %d", c.Generator.Days)
	}

	switch c.Storage.Backend {
	case StoreFile:
		if c.Storage.Dir == "" {
			return fmt.Errorf("model directory is required for the file store")
		}
	case StorePostgres:
		if c.Storage.DSN == "" {
			return fmt.Errorf("database DSN is required for the postgres store")
		}
	default:
		return fmt.Errorf("unknown model store backend: %q", c.Storage.Backend)
	}

	if c.Redis.CacheTTL <= 0 {
		return fmt.Errorf("invalid cache TTL: %s", c.Redis.CacheTTL)
	}
	if c.Refresh.Interval < 0 {
		return fmt.Errorf("invalid refresh interval: %s", c.Refresh.Interval)
	}

	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return defaultValue
	}

	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
