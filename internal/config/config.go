package config

import (
	"errors"
	"os"

	"github.com/ipetrenko/storefront/internal/email"
)

type Config struct {
	ServerPort  string
	DatabaseURL string
	RedisURL    string
	JWTSecret   string

	// User service only.
	SMTP           email.SMTPConfig
	ConfirmBaseURL string

	// Product service only.
	UserServiceURL string
}

// Load reads configuration from the environment. A missing signing key or
// database URL is a startup error, never a per-request one.
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		SMTP: email.SMTPConfig{
			Host:     getEnv("SMTP_HOST", "localhost"),
			Port:     getEnv("SMTP_PORT", "587"),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getEnv("EMAIL_FROM", "no-reply@storefront.local"),
		},
		ConfirmBaseURL: getEnv("CONFIRM_BASE_URL", "http://localhost:8080"),
		UserServiceURL: getEnv("USER_SERVICE_URL", "http://localhost:8080"),
	}

	// Validate required fields
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}

// Helper: get env with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
