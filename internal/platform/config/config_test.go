package config_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/bizledger/internal/platform/config"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, config.StoragePostgres, cfg.StorageDriver)
	assert.Equal(t, "file://migrations", cfg.MigrationsPath)
	assert.Equal(t, "main", cfg.DefaultLocationID)
	assert.Equal(t, "0.01", cfg.AmountTolerance.String())
	assert.Equal(t, int32(10), cfg.DBMaxConns)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.NotEmpty(t, cfg.JWTSecret)
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "Memory")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DEFAULT_LOCATION_ID", "warehouse-2")
	t.Setenv("AMOUNT_TOLERANCE", "0.005")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("DB_MAX_CONNS", "25")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, config.StorageMemory, cfg.StorageDriver)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "warehouse-2", cfg.DefaultLocationID)
	assert.Equal(t, "0.005", cfg.AmountTolerance.String())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, int32(25), cfg.DBMaxConns)
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("RATE_LIMIT", "lots")
	t.Setenv("AMOUNT_TOLERANCE", "-1")
	t.Setenv("LOG_LEVEL", "chatty")
	t.Setenv("DB_MAX_CONNS", "0")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, config.StoragePostgres, cfg.StorageDriver)
	assert.Equal(t, "200-M", cfg.RateLimit)
	assert.Equal(t, "0.01", cfg.AmountTolerance.String())
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, int32(10), cfg.DBMaxConns)
}
