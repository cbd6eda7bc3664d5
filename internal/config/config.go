package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	// NASA NeoWs feed configuration.
	NasaAPIKey        string
	NasaBaseURL       string
	NasaTimeout       time.Duration
	NasaRetryAttempts int
	NasaRetryDelay    time.Duration

	// Database configuration. Driver is "postgres" or "sqlite".
	DatabaseDriver string
	DatabaseDSN    string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Daily processing schedule, HH:MM in ScheduleTimezone.
	ScheduleTime     string
	ScheduleTimezone string
}

// Load reads configuration from environment variables, applying defaults
// where unset. A .env file in the working directory is loaded first if
// present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	nasaTimeout, err := parseDurationEnv("NASA_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	retryDelay, err := parseDurationEnv("NASA_RETRY_DELAY", "100ms")
	if err != nil {
		return nil, err
	}

	retryAttempts, err := parseRetryAttempts()
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := parseDurationEnv("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		NasaAPIKey:        os.Getenv("NASA_API_KEY"),
		NasaBaseURL:       envOrDefault("NASA_BASE_URL", "https://api.nasa.gov/neo/rest/v1"),
		NasaTimeout:       nasaTimeout,
		NasaRetryAttempts: retryAttempts,
		NasaRetryDelay:    retryDelay,

		DatabaseDriver: envOrDefault("DATABASE_DRIVER", "sqlite"),
		DatabaseDSN:    envOrDefault("DATABASE_DSN", "neo.db"),

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		ScheduleTime:     envOrDefault("SCHEDULE_TIME", "03:00"),
		ScheduleTimezone: envOrDefault("SCHEDULE_TIMEZONE", "UTC"),
	}

	if cfg.NasaAPIKey == "" {
		return nil, errors.New("NASA_API_KEY is required")
	}
	if cfg.DatabaseDriver != "postgres" && cfg.DatabaseDriver != "sqlite" {
		return nil, fmt.Errorf("invalid DATABASE_DRIVER %q: must be postgres or sqlite", cfg.DatabaseDriver)
	}
	if cfg.DatabaseDSN == "" {
		return nil, errors.New("DATABASE_DSN is required")
	}
	if _, _, err := ParseScheduleTime(cfg.ScheduleTime); err != nil {
		return nil, err
	}
	if _, err := time.LoadLocation(cfg.ScheduleTimezone); err != nil {
		return nil, fmt.Errorf("invalid SCHEDULE_TIMEZONE %q: %w", cfg.ScheduleTimezone, err)
	}

	return cfg, nil
}

// ParseScheduleTime splits an HH:MM schedule string into hour and minute.
func ParseScheduleTime(s string) (hour, minute int, err error) {
	t, parseErr := time.Parse("15:04", s)
	if parseErr != nil {
		return 0, 0, fmt.Errorf("invalid SCHEDULE_TIME %q: must be HH:MM", s)
	}
	return t.Hour(), t.Minute(), nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(key, def string) (time.Duration, error) {
	s := envOrDefault(key, def)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive duration", key, s)
	}
	return d, nil
}

func parseRetryAttempts() (int, error) {
	s := envOrDefault("NASA_RETRY_ATTEMPTS", "3")
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 10 {
		return 0, fmt.Errorf("invalid NASA_RETRY_ATTEMPTS %q: must be between 1 and 10", s)
	}
	return n, nil
}
