package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything the worker reads from the environment.
type Config struct {
	DSN      string
	RedisURL string
	Queue    string
	// BinWidth is the histogram interval stored with each result; zero
	// disables the histogram.
	BinWidth float64
}

// loadEnvFiles merges .env files into the environment. Missing files are
// ignored so production can rely on real environment variables alone.
func loadEnvFiles(paths ...string) {
	for _, p := range paths {
		_ = godotenv.Load(p)
	}
}

func loadConfig() (Config, error) {
	dsn, err := buildDSNFromEnv()
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		DSN:      dsn,
		RedisURL: envOr("REDIS_URL", "redis://localhost:6379/0"),
		Queue:    "queue:" + envOr("WORKER_QUEUE", "default"),
	}
	if raw := os.Getenv("HISTOGRAM_BIN_WIDTH"); raw != "" {
		w, err := strconv.ParseFloat(raw, 64)
		if err != nil || w < 0 {
			return Config{}, fmt.Errorf("HISTOGRAM_BIN_WIDTH %q must be a non-negative number", raw)
		}
		cfg.BinWidth = w
	}
	return cfg, nil
}

func buildDSNFromEnv() (string, error) {
	dbname := os.Getenv("POSTGRES_DB")
	if dbname == "" {
		if url := os.Getenv("DATABASE_URL"); url != "" {
			return url, nil
		}
		return "", errors.New("POSTGRES_DB not set; set env vars or DATABASE_URL")
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		envOr("POSTGRES_HOST", "localhost"),
		envOr("POSTGRES_PORT", "5432"),
		os.Getenv("POSTGRES_USER"),
		os.Getenv("POSTGRES_PASSWORD"),
		dbname,
		envOr("POSTGRES_SSLMODE", "disable"),
	), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
