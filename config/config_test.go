package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("PORT", "")
	t.Setenv("CORS_ALLOW_ORIGINS", "")
	t.Setenv("OUTBOX_INTERVAL", "")
	t.Setenv("OUTBOX_MAX_ATTEMPTS", "")

	cfg := FromEnv()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowOrigins)
	assert.Equal(t, 2*time.Second, cfg.OutboxInterval)
	assert.Zero(t, cfg.OutboxMaxAttempts)
	assert.Equal(t, "restaurante.eventos", cfg.RabbitMQQueue)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "MySQL")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CACHE_TTL", "1m")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("OUTBOX_MAX_ATTEMPTS", "50")

	cfg := FromEnv()

	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, time.Minute, cfg.CacheTTL)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowOrigins)
	assert.Equal(t, 50, cfg.OutboxMaxAttempts)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"sqlite without url", func(c *Config) { c.DBDriver = "sqlite" }, ""},
		{"postgres without url", func(c *Config) { c.DBDriver = "postgres" }, "DATABASE_URL is required"},
		{"unknown driver", func(c *Config) { c.DBDriver = "oracle" }, "unsupported DB_DRIVER"},
		{"s3 without bucket", func(c *Config) { c.DBDriver = "sqlite"; c.ImageStorage = "s3" }, "AWS_S3_BUCKET"},
		{"negative burst", func(c *Config) { c.DBDriver = "sqlite"; c.RateLimitBurst = -1 }, "must not be negative"},
		{"negative outbox attempts", func(c *Config) { c.DBDriver = "sqlite"; c.OutboxMaxAttempts = -1 }, "OUTBOX_MAX_ATTEMPTS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{ImageStorage: "local", RateLimitRPS: 1, RateLimitBurst: 1}
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
