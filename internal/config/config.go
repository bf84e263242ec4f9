package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings for the gateway. Everything has a sane
// local-dev default, so a bare `go run ./cmd/server` works against a scoring
// service on localhost:5001.
type Config struct {
	Env            string
	ListenAddr     string
	ScoringURL     string
	ScoringTimeout time.Duration
	HealthInterval time.Duration
	LogLevel       string
}

// Load reads configuration from the environment, loading a .env file first if
// one is present.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Env:            getenv("APP_ENV", "development"),
		ListenAddr:     ":" + getenv("PORT", "8080"),
		ScoringURL:     getenv("SCORING_URL", "http://localhost:5001"),
		ScoringTimeout: getenvSeconds("SCORING_TIMEOUT", 30),
		HealthInterval: getenvSeconds("HEALTH_INTERVAL", 30),
		LogLevel:       getenv("LOG_LEVEL", "info"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvSeconds(key string, def int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return time.Duration(def) * time.Second
}
