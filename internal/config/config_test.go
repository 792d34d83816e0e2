package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BRALE_AUTH_URL", "")
	t.Setenv("BRALE_API_URL", "")
	t.Setenv("BRALE_HTTP_TIMEOUT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultAuthURL, cfg.Brale.AuthURL)
	assert.Equal(t, DefaultApiURL, cfg.Brale.ApiURL)
	assert.Equal(t, 30*time.Second, cfg.Brale.HttpTimeout)
	assert.Equal(t, 8, cfg.Fetch.MaxConcurrency)
	assert.Equal(t, "brale.db", cfg.Database.Path)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("BRALE_API_URL", "http://localhost:9999/")
	t.Setenv("BRALE_HTTP_TIMEOUT", "5s")
	t.Setenv("BRALE_MAX_CONCURRENCY", "2")
	t.Setenv("BRALE_RATE_LIMIT", "2.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9999", cfg.Brale.ApiURL)
	assert.Equal(t, 5*time.Second, cfg.Brale.HttpTimeout)
	assert.Equal(t, 2, cfg.Fetch.MaxConcurrency)
	assert.Equal(t, 2.5, cfg.Fetch.RateLimit)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("BRALE_HTTP_TIMEOUT", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BRALE_HTTP_TIMEOUT")
}

func TestLoad_RejectsNonPositiveConcurrency(t *testing.T) {
	t.Setenv("BRALE_MAX_CONCURRENCY", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BRALE_MAX_CONCURRENCY")
}
