// Package config loads process-wide settings once at startup. The returned
// Config is never mutated afterwards.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string

	JWTSecret           string
	RevocationRetention time.Duration
	BcryptCost          int

	RegisterRateLimitMax    int
	RegisterRateLimitWindow time.Duration

	SentryDSN  string
	CronSecret string

	AdminEmail    string
	AdminPassword string
}

type Options struct {
	LoadDotEnv bool
}

func Load(options Options) (Config, error) {
	if options.LoadDotEnv || envBoolOrDefault("LOAD_DOTENV", false) {
		_ = godotenv.Load()
	}

	jwtSecret, err := mustEnv("JWT_SECRET")
	if err != nil {
		return Config{}, err
	}

	return Config{
		Port:        envOrDefault("PORT", "8080"),
		Environment: envOrDefault("APP_ENV", "development"),
		LogLevel:    envOrDefault("LOG_LEVEL", "info"),

		JWTSecret:           jwtSecret,
		RevocationRetention: envMinutesOrDefault("REVOCATION_RETENTION_MINUTES", 60),
		BcryptCost:          envIntOrDefault("BCRYPT_COST", bcrypt.DefaultCost),

		RegisterRateLimitMax:    envIntOrDefault("REGISTER_RATE_LIMIT_MAX", 10),
		RegisterRateLimitWindow: envSecondsOrDefault("REGISTER_RATE_LIMIT_WINDOW_SECONDS", 60),

		SentryDSN:  strings.TrimSpace(os.Getenv("SENTRY_DSN")),
		CronSecret: strings.TrimSpace(os.Getenv("CRON_SECRET")),

		AdminEmail:    strings.TrimSpace(os.Getenv("ADMIN_EMAIL")),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}, nil
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%s", c.Port)
}

func mustEnv(name string) (string, error) {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return "", fmt.Errorf("missing required env: %s", name)
	}
	return value, nil
}

func envOrDefault(name, fallback string) string {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback
	}
	return value
}

func envIntOrDefault(name string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func envMinutesOrDefault(name string, fallback int) time.Duration {
	return time.Duration(envIntOrDefault(name, fallback)) * time.Minute
}

func envSecondsOrDefault(name string, fallback int) time.Duration {
	return time.Duration(envIntOrDefault(name, fallback)) * time.Second
}

func envBoolOrDefault(name string, fallback bool) bool {
	value := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if value == "" {
		return fallback
	}

	switch value {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
