package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFile_Defaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: \"9090\"\n"), 0o600))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.Server.Address())
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "@every 1m", cfg.Scheduler.Spec)
	assert.Equal(t, 720*time.Hour, cfg.Auth.SessionTTL)
	assert.Len(t, cfg.Scraper.Instances, 5)
	assert.Equal(t, "Europe/Istanbul", cfg.Scoring.Timezone)
}

func TestScoringLocation(t *testing.T) {
	assert.Equal(t, time.UTC, Scoring{Timezone: "Not/AZone"}.Location())
}

func TestLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, Log{Level: "DEBUG"}.SlogLevel())
	assert.Equal(t, slog.LevelWarn, Log{Level: "warning"}.SlogLevel())
	assert.Equal(t, slog.LevelInfo, Log{Level: ""}.SlogLevel())
}
