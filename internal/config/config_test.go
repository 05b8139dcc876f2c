package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Environment)
	assert.Equal(t, "127.0.0.1:5051", cfg.Address())
	assert.Equal(t, "./data/pos.db", cfg.DBPath)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "Asia/Kolkata", cfg.TimeZone)
}

func TestEnvironmentQualifiedSettingWins(t *testing.T) {
	t.Setenv("ENVIRONMENT", "prod")
	t.Setenv("DB_PATH", "/srv/pos/plain.db")
	t.Setenv("DB_PATH_PROD", "/srv/pos/prod.db")
	t.Setenv("SERVER_PORT", "8080")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/srv/pos/prod.db", cfg.DBPath)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "prod", cfg.Environment)
}

func TestLoadRejectsBadSessionTTL(t *testing.T) {
	for _, raw := range []string{"soon", "-5m", "0s"} {
		t.Setenv("SESSION_TTL", raw)
		_, err := Load()
		assert.Error(t, err, "SESSION_TTL=%q", raw)
	}
}

func TestLocationFallsBackToLocal(t *testing.T) {
	assert.Equal(t, time.Local, Config{TimeZone: "Mars/Olympus"}.Location())

	assert.Equal(t, time.UTC, Config{TimeZone: "UTC"}.Location())
}
