// Package config loads runtime settings from the environment and an optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds every setting the service reads at startup.
type Config struct {
	Port string

	// Storage: "duckdb" keeps a local embedded file at DBPath, "pgx" connects to DatabaseURL.
	DBDriver    string
	DBPath      string
	DatabaseURL string

	AuthUser string
	AuthPass string

	LogLevel  string
	LogFormat string

	// InvoiceNumbering is "sequential" (per-company counter) or "opaque" (derived from the id).
	InvoiceNumbering string

	RedisAddr     string
	RedisPassword string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string
}

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("SMTP_PORT must be a number: %w", err)
	}

	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		DBDriver:         getEnv("DB_DRIVER", "duckdb"),
		DBPath:           getEnv("DB_PATH", "./data/invoicing.duckdb"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		AuthUser:         getEnv("AUTH_USER", ""),
		AuthPass:         getEnv("AUTH_PASS", ""),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "text"),
		InvoiceNumbering: getEnv("INVOICE_NUMBERING", "sequential"),
		RedisAddr:        getEnv("REDIS_ADDR", ""),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		SMTPHost:         getEnv("SMTP_HOST", ""),
		SMTPPort:         port,
		SMTPUser:         getEnv("SMTP_USER", ""),
		SMTPPass:         getEnv("SMTP_PASS", ""),
		SMTPFrom:         getEnv("SMTP_FROM", ""),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "duckdb":
	case "pgx":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when DB_DRIVER=pgx")
		}
	default:
		return fmt.Errorf("DB_DRIVER must be one of: duckdb, pgx")
	}
	switch c.InvoiceNumbering {
	case "sequential", "opaque":
	default:
		return fmt.Errorf("INVOICE_NUMBERING must be one of: sequential, opaque")
	}
	if c.SMTPHost != "" && c.SMTPFrom == "" {
		return fmt.Errorf("SMTP_FROM is required when SMTP_HOST is set")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
