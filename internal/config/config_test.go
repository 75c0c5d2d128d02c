package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_RateLimitDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.EqualValues(t, 10, cfg.RateLimitLimit)
	assert.Equal(t, time.Minute, cfg.RateLimitPeriod)
}

func TestLoad_RateLimitFromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("RATE_LIMIT_LIMIT", "3")
	t.Setenv("RATE_LIMIT_PERIOD", "30s")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.EqualValues(t, 3, cfg.RateLimitLimit)
	assert.Equal(t, 30*time.Second, cfg.RateLimitPeriod)
}
