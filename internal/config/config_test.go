package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("API_KEY", "test-key")
	t.Setenv("AUTHORIZER_BASE_URL", "http://localhost:9999")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.AuthorizerTimeout)
	assert.Equal(t, 60*time.Second, cfg.StalePendingAfter)
	assert.Equal(t, 30*time.Second, cfg.SweepInterval)
	assert.Equal(t, 5*time.Minute, cfg.ClockSkewHorizon)
	assert.InDelta(t, 14.0, cfg.DecayHalfLifeDays, 1e-9)
}

func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv("API_KEY", "")
	t.Setenv("AUTHORIZER_BASE_URL", "http://localhost:9999")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_KEY")
}

func TestLoad_MissingAuthorizerURL(t *testing.T) {
	t.Setenv("API_KEY", "test-key")
	t.Setenv("AUTHORIZER_BASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTHORIZER_BASE_URL")
}

func TestLoad_InvalidPort(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "not-a-number")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORT")
}

func TestLoad_StaleThresholdMustExceedAuthorizerTimeout(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("AUTHORIZER_TIMEOUT", "90s")
	t.Setenv("STALE_PENDING_AFTER", "60s")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STALE_PENDING_AFTER")
}

func TestLoad_DurationOverride(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("STALE_PENDING_AFTER", "2m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, cfg.StalePendingAfter)
}

func TestGetDBConnString(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_USER", "u")
	t.Setenv("DB_PASSWORD", "p")
	t.Setenv("DB_HOST", "h")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_NAME", "d")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@h:5433/d?sslmode=disable", cfg.GetDBConnString())
}
