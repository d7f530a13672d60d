// internal/config/config.go
//
// Runtime configuration read from the environment (and .env, if present).
// Every value has a default so the server starts with no configuration.

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/figrac0/quantum-game/internal/game"
)

// Config is the resolved process configuration.
type Config struct {
	Port           string
	LogLevel       string
	LogFormat      string // "json" or "console"; empty picks by terminal
	LogFile        string
	DBPath         string
	JWTSecret      string
	TokenTTL       time.Duration
	ClientOrigin   string
	CookieSecure   bool
	ChallengesFile string
	LocaleFile     string
	SessionTTL     time.Duration
	SweepInterval  time.Duration
	Game           game.Settings
}

const devSecret = "dev-secret-change-me"

// Load reads .env (best effort) and then the environment.
func Load() Config {
	_ = godotenv.Load()

	g := game.DefaultSettings()
	g.Lives = getEnvAsInt("GAME_LIVES", g.Lives)
	g.TimeLimit = int(getEnvAsDuration("GAME_TIME_LIMIT", time.Duration(g.TimeLimit)*time.Second) / time.Second)
	g.FeedbackDelay = getEnvAsDuration("FEEDBACK_DELAY", g.FeedbackDelay)

	c := Config{
		Port:           getEnv("PORT", "5175"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", ""),
		LogFile:        getEnv("LOG_FILE", ""),
		DBPath:         getEnv("DB_PATH", "./data/quantum.db"),
		JWTSecret:      getEnv("JWT_SECRET", devSecret),
		TokenTTL:       getEnvAsDuration("TOKEN_TTL", 2*time.Hour),
		ClientOrigin:   getEnv("CLIENT_ORIGIN", "http://localhost:3000"),
		CookieSecure:   getEnv("COOKIE_SECURE", "") == "true",
		ChallengesFile: getEnv("CHALLENGES_FILE", ""),
		LocaleFile:     getEnv("LOCALE_FILE", defaultLocaleFile()),
		SessionTTL:     getEnvAsDuration("SESSION_TTL", 30*time.Minute),
		SweepInterval:  getEnvAsDuration("SWEEP_INTERVAL", time.Minute),
		Game:           g,
	}
	if c.JWTSecret == devSecret {
		log.Warn().Msg("JWT_SECRET not set; using development secret")
	}
	return c
}

// Validate reports the first setting that cannot work.
func (c Config) Validate() error {
	if p, err := strconv.Atoi(c.Port); err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("config: invalid PORT %q", c.Port)
	}
	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is empty")
	}
	if c.TokenTTL <= 0 {
		return errors.New("config: TOKEN_TTL must be positive")
	}
	if c.Game.Lives <= 0 {
		return errors.New("config: GAME_LIVES must be positive")
	}
	if c.Game.TimeLimit <= 0 {
		return errors.New("config: GAME_TIME_LIMIT must be at least 1s")
	}
	if c.Game.FeedbackDelay <= 0 {
		return errors.New("config: FEEDBACK_DELAY must be positive")
	}
	if c.Game.TickInterval <= 0 {
		return errors.New("config: tick interval must be positive")
	}
	if c.SweepInterval <= 0 {
		return errors.New("config: SWEEP_INTERVAL must be positive")
	}
	return nil
}

func defaultLocaleFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "locale.yaml"
	}
	return filepath.Join(dir, "quantum-game", "locale.yaml")
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getEnvAsInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Str("key", k).Str("value", v).Msg("not an integer; using default")
		return def
	}
	return n
}

// getEnvAsDuration accepts Go durations ("90s", "1m30s") and, for
// convenience, bare integers meaning seconds.
func getEnvAsDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	log.Warn().Str("key", k).Str("value", v).Msg("not a duration; using default")
	return def
}
