package config

import (
	"os"
	"testing"
	"time"

	"github.com/kapu/symbol-social-metadata-go/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{
		"SYMBOL_NODE_URL", "SOCIAL_METADATA_KEY", "SOCIAL_METADATA_PAGE_SIZE",
		"HTTP_TIMEOUT_SECONDS", "REFRESH_INTERVAL_SECONDS", "REDIS_ENABLED", "POSTGRES_ENABLED",
		"LOG_LEVEL", "LOG_FILE", "METRICS_ADDR",
	} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()

	assert.Empty(t, cfg.Node.URL)
	assert.Equal(t, 15*time.Second, cfg.Node.HTTPTimeout)
	assert.Equal(t, "D6FBBD8C20F5AC1C", cfg.Metadata.ScopedMetadataKey)
	assert.Equal(t, 100, cfg.Metadata.PageSize)
	assert.Zero(t, cfg.Refresh.Interval)
	assert.Equal(t, 10*time.Minute, cfg.Refresh.Deadline)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "symbol:social_metadata", cfg.Redis.Key)
	assert.False(t, cfg.Postgres.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("SYMBOL_NODE_URL", "https://node.example:3001/")
	t.Setenv("SOCIAL_METADATA_KEY", "abcdef0123456789")
	t.Setenv("SOCIAL_METADATA_PAGE_SIZE", "25")
	t.Setenv("REFRESH_INTERVAL_SECONDS", "300")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_PORT", "not-a-number")

	cfg := FromEnv()

	assert.Equal(t, "https://node.example:3001", cfg.Node.URL)
	assert.Equal(t, "ABCDEF0123456789", cfg.Metadata.ScopedMetadataKey)
	assert.Equal(t, 100, cfg.Metadata.PageSize, "page size is not configurable")
	assert.Equal(t, 5*time.Minute, cfg.Refresh.Interval)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 6379, cfg.Redis.Port)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		field  string
		mutate func(*Config)
	}{
		{"short key", "SOCIAL_METADATA_KEY", func(c *Config) { c.Metadata.ScopedMetadataKey = "D6FB" }},
		{"non hex key", "SOCIAL_METADATA_KEY", func(c *Config) { c.Metadata.ScopedMetadataKey = "Z6FBBD8C20F5AC1C" }},
		{"zero page size", "PageSize", func(c *Config) { c.Metadata.PageSize = 0 }},
		{"zero timeout", "HTTP_TIMEOUT_SECONDS", func(c *Config) { c.Node.HTTPTimeout = 0 }},
		{"negative interval", "REFRESH_INTERVAL_SECONDS", func(c *Config) { c.Refresh.Interval = -time.Second }},
		{"redis without key", "REDIS_KEY", func(c *Config) { c.Redis.Enabled = true; c.Redis.Key = "" }},
		{"postgres without db", "POSTGRES_DB", func(c *Config) { c.Postgres.Enabled = true; c.Postgres.Database = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			var verr *errors.ValidationError
			require.ErrorAs(t, cfg.Validate(), &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, errors.CodeValidation, verr.Code)
		})
	}
}

func TestLoadWrapsValidationError(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("SOCIAL_METADATA_KEY", "nothex")

	_, err = Load()
	var verr *errors.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func validConfig() *Config {
	return &Config{
		Node:     NodeConfig{HTTPTimeout: time.Second},
		Metadata: MetadataConfig{ScopedMetadataKey: "D6FBBD8C20F5AC1C", PageSize: 100},
		Redis:    RedisConfig{Key: "k"},
		Postgres: PostgresConfig{Database: "db"},
	}
}
