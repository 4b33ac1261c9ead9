package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "memory", cfg.Storage)
		assert.Equal(t, ":8080", cfg.HTTPAddr)
		assert.Equal(t, 10, cfg.PageSize)
		assert.Equal(t, 365*24*time.Hour, cfg.TokenTTL)
		assert.Equal(t, "localhost", cfg.DB.Host)
	})

	t.Run("Missing JWT secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")

		_, err := Load()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "parse env:")
	})

	t.Run("Overrides", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("STORAGE", "postgres")
		t.Setenv("TOKEN_TTL", "1h")
		t.Setenv("DB_NAME", "qupp")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "postgres", cfg.Storage)
		assert.Equal(t, time.Hour, cfg.TokenTTL)
		assert.Contains(t, cfg.DB.DSN(), "dbname=qupp")
	})

	t.Run("Non-positive page size", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("PAGE_SIZE", "0")

		_, err := Load()
		assert.Error(t, err)
	})
}
