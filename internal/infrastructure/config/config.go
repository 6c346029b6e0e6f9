package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration

	DBPath string

	// Rollover / retention
	RolloverSchedule     string // cron expression
	DailyRetentionDays   int
	SessionRetentionDays int
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()
	return &Config{
		ServerAddress:        mustGetenv("SERVER_ADDRESS"),
		ShutdownTimeout:      mustGetDuration("SHUTDOWN_TIMEOUT"),
		DBPath:               getenvDefault("DB_PATH", "triviadeck.db"),
		RolloverSchedule:     getenvDefault("ROLLOVER_SCHEDULE", "0 3 * * 1"),
		DailyRetentionDays:   getenvIntDefault("DAILY_RETENTION_DAYS", 30),
		SessionRetentionDays: getenvIntDefault("SESSION_RETENTION_DAYS", 7),
	}
}

func mustGetenv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	return v
}

func mustGetDuration(k string) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

func getenvIntDefault(k string, fallback int) int {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid integer: %v", k, v, err)
	}
	return n
}
