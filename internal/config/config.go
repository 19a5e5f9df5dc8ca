// Package config reads process configuration from the environment.
//
// A .env file in the working directory is loaded first (development), then
// each setting falls back to its default when unset or unparsable.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every tunable of the server and terminal player.
type Config struct {
	Port         string
	LogLevel     string
	DBPath       string
	JWTSecret    string
	JWTExpires   time.Duration
	CookieName   string
	ClientOrigin string
	Production   bool
	DailySalt    string
	RateLimit    time.Duration
	SessionTTL   time.Duration
}

// Load reads .env (if present) and the environment.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the environment without touching .env files.
func FromEnv() Config {
	return Config{
		Port:         getEnv("PORT", "5175"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		DBPath:       getEnv("DB_PATH", "./data/app.db"),
		JWTSecret:    getEnv("JWT_SECRET", "dev_secret_change_me"),
		JWTExpires:   time.Duration(envInt("JWT_EXPIRES_DAYS", 14)) * 24 * time.Hour,
		CookieName:   getEnv("COOKIE_NAME", "colormemory_token"),
		ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		Production:   os.Getenv("NODE_ENV") == "production",
		DailySalt:    getEnv("DAILY_SALT", "local_dev_salt"),
		RateLimit:    time.Duration(envInt("RATE_LIMIT_MS", 100)) * time.Millisecond,
		SessionTTL:   time.Duration(envInt("SESSION_TTL_MIN", 120)) * time.Minute,
	}
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}
