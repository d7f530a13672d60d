package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"PORT", "LOG_LEVEL", "LOG_FORMAT", "LOG_FILE", "DB_PATH", "JWT_SECRET",
		"TOKEN_TTL", "CLIENT_ORIGIN", "CHALLENGES_FILE", "LOCALE_FILE",
		"GAME_LIVES", "GAME_TIME_LIMIT", "FEEDBACK_DELAY", "SESSION_TTL", "SWEEP_INTERVAL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	testChdir(t, t.TempDir()) // no stray .env

	c := Load()
	assert.Equal(t, "5175", c.Port)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "./data/quantum.db", c.DBPath)
	assert.Equal(t, 2*time.Hour, c.TokenTTL)
	assert.Equal(t, "http://localhost:3000", c.ClientOrigin)
	assert.Equal(t, 3, c.Game.Lives)
	assert.Equal(t, 60, c.Game.TimeLimit)
	assert.Equal(t, 1500*time.Millisecond, c.Game.FeedbackDelay)
	assert.Equal(t, 30*time.Minute, c.SessionTTL)
	assert.Contains(t, c.LocaleFile, "locale.yaml")
	require.NoError(t, c.Validate())
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	testChdir(t, t.TempDir())
	t.Setenv("PORT", "8080")
	t.Setenv("GAME_LIVES", "5")
	t.Setenv("GAME_TIME_LIMIT", "90s")
	t.Setenv("FEEDBACK_DELAY", "2")
	t.Setenv("TOKEN_TTL", "nonsense")
	t.Setenv("JWT_SECRET", "s3cret")

	c := Load()
	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, 5, c.Game.Lives)
	assert.Equal(t, 90, c.Game.TimeLimit)
	assert.Equal(t, 2*time.Second, c.Game.FeedbackDelay)
	assert.Equal(t, 2*time.Hour, c.TokenTTL, "bad values fall back to the default")
	assert.Equal(t, "s3cret", c.JWTSecret)
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	testChdir(t, t.TempDir())
	base := Load()

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"port not a number", func(c *Config) { c.Port = "http" }, "invalid PORT"},
		{"port out of range", func(c *Config) { c.Port = "70000" }, "invalid PORT"},
		{"no lives", func(c *Config) { c.Game.Lives = 0 }, "GAME_LIVES"},
		{"no time", func(c *Config) { c.Game.TimeLimit = 0 }, "GAME_TIME_LIMIT"},
		{"empty secret", func(c *Config) { c.JWTSecret = "" }, "JWT_SECRET"},
		{"negative delay", func(c *Config) { c.Game.FeedbackDelay = -time.Second }, "FEEDBACK_DELAY"},
		{"zero delay", func(c *Config) { c.Game.FeedbackDelay = 0 }, "FEEDBACK_DELAY"},
		{"zero tick", func(c *Config) { c.Game.TickInterval = 0 }, "tick interval"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.mutate(&c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
