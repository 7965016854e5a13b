package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENVIRONMENT", "LOG_LEVEL", "REDIS_URL",
		"NARRATIVE_PROVIDER", "GEMINI_API_KEY", "MODEL_NAME", "NARRATIVE_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "localhost:6379", cfg.RedisURL)
	assert.Equal(t, ProviderGemini, cfg.NarrativeProvider)
	assert.Equal(t, 30*time.Second, cfg.NarrativeTimeout)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("REDIS_URL", "redis://cache:6379")
	t.Setenv("NARRATIVE_PROVIDER", "MOCK")
	t.Setenv("NARRATIVE_TIMEOUT", "45")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "redis://cache:6379", cfg.RedisURL)
	assert.Equal(t, ProviderMock, cfg.NarrativeProvider)
	assert.Equal(t, 45*time.Second, cfg.NarrativeTimeout)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, parseLogLevel("WARN"))
	assert.Equal(t, slog.LevelError, parseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("bogus"))
}

func TestParseSeconds(t *testing.T) {
	assert.Equal(t, 10*time.Second, parseSeconds("10"))
	assert.Equal(t, 30*time.Second, parseSeconds("not-a-number"))
	assert.Equal(t, 30*time.Second, parseSeconds("-5"))
}
