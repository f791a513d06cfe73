// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// ErrMissingAPIKey is returned when TMDB_API_KEY is not set
var ErrMissingAPIKey = errors.New("TMDB_API_KEY environment variable is required")

// Config holds the settings supplied at process start
type Config struct {
	TMDBAPIKey       string
	TMDBBaseURL      string // empty means services.DefaultTMDBBaseURL
	DatabasePath     string
	ServerAddr       string
	StrictCategories bool
}

// Load reads an optional .env file and then the environment
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	cfg := &Config{
		TMDBAPIKey:       os.Getenv("TMDB_API_KEY"),
		TMDBBaseURL:      os.Getenv("TMDB_BASE_URL"),
		DatabasePath:     getEnv("DATABASE_PATH", "movies.db"),
		ServerAddr:       getEnv("SERVER_ADDR", ":8080"),
		StrictCategories: getBool("STRICT_CATEGORIES", false),
	}

	if cfg.TMDBAPIKey == "" {
		return nil, ErrMissingAPIKey
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return b
}
