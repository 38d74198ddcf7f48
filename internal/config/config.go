package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kapu/symbol-social-metadata-go/internal/constants"
	"github.com/kapu/symbol-social-metadata-go/internal/ledger"
	"github.com/kapu/symbol-social-metadata-go/pkg/errors"
)

type Config struct {
	Node     NodeConfig
	Metadata MetadataConfig
	Refresh  RefreshConfig
	Redis    RedisConfig
	Postgres PostgresConfig
	Metrics  MetricsConfig
	Logging  LoggingConfig
}

type NodeConfig struct {
	// URL may be empty until a node is chosen; fetches then report not ready.
	URL         string
	HTTPTimeout time.Duration
}

type MetadataConfig struct {
	ScopedMetadataKey string
	// PageSize is fixed: a page shorter than it ends pagination.
	PageSize int
}

type RefreshConfig struct {
	// Interval zero disables periodic refresh.
	Interval time.Duration
	Deadline time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	Key      string
}

type PostgresConfig struct {
	Enabled  bool
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

type MetricsConfig struct {
	Addr string
}

type LoggingConfig struct {
	Level string
	File  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// FromEnv reads the process environment without loading .env or validating.
func FromEnv() *Config {
	return &Config{
		Node: NodeConfig{
			URL:         strings.TrimRight(getEnv("SYMBOL_NODE_URL", ""), "/"),
			HTTPTimeout: time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", int(constants.APIConfig.RequestTimeout/time.Second))) * time.Second,
		},
		Metadata: MetadataConfig{
			ScopedMetadataKey: strings.ToUpper(getEnv("SOCIAL_METADATA_KEY", constants.SocialMetadataConfig.ScopedMetadataKey)),
			PageSize:          constants.SocialMetadataConfig.PageSize,
		},
		Refresh: RefreshConfig{
			Interval: time.Duration(getEnvInt("REFRESH_INTERVAL_SECONDS", 0)) * time.Second,
			Deadline: time.Duration(getEnvInt("FETCH_DEADLINE_SECONDS", int(constants.StoreConfig.FetchDeadline/time.Second))) * time.Second,
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			Key:      getEnv("REDIS_KEY", constants.StoreConfig.RedisKey),
		},
		Postgres: PostgresConfig{
			Enabled:  getEnvBool("POSTGRES_ENABLED", false),
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "symbol"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			Database: getEnv("POSTGRES_DB", "symbol_social"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		Metrics: MetricsConfig{
			Addr: getEnv("METRICS_ADDR", ""),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}
}

// Validate reports the first invalid setting as an *errors.ValidationError.
func (c *Config) Validate() error {
	key := c.Metadata.ScopedMetadataKey
	if len(key) != 16 || !ledger.IsHex(key) {
		return errors.NewValidationError("SOCIAL_METADATA_KEY must be 16 hex characters", "SOCIAL_METADATA_KEY", key)
	}
	if c.Metadata.PageSize <= 0 {
		return errors.NewValidationError("page size must be positive", "PageSize", c.Metadata.PageSize)
	}
	if c.Node.HTTPTimeout <= 0 {
		return errors.NewValidationError("HTTP_TIMEOUT_SECONDS must be positive", "HTTP_TIMEOUT_SECONDS", c.Node.HTTPTimeout)
	}
	if c.Refresh.Interval < 0 {
		return errors.NewValidationError("REFRESH_INTERVAL_SECONDS must not be negative", "REFRESH_INTERVAL_SECONDS", c.Refresh.Interval)
	}
	if c.Redis.Enabled && c.Redis.Key == "" {
		return errors.NewValidationError("REDIS_KEY is required when Redis is enabled", "REDIS_KEY", c.Redis.Key)
	}
	if c.Postgres.Enabled && c.Postgres.Database == "" {
		return errors.NewValidationError("POSTGRES_DB is required when PostgreSQL is enabled", "POSTGRES_DB", c.Postgres.Database)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
