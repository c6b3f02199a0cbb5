// Package config provides configuration management for the portfolio
// backend. It loads configuration from environment variables and .env files.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Logging    LoggingConfig
	OpenAI     OpenAIConfig
	Bundesbank BundesbankConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string
	Port string
}

// DatabaseConfig holds Postgres configuration
type DatabaseConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	Database       string
	SSLMode        string
	MigrationsPath string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Pretty bool
}

// OpenAIConfig holds the advisor model configuration
type OpenAIConfig struct {
	APIKey string
	APIURL string
	Model  string
}

// BundesbankConfig holds the currency-rate client configuration
type BundesbankConfig struct {
	APIURL string
	// Flow is the SDMX dataflow carrying daily EUR reference rates.
	Flow string
	// RefreshSchedule is the cron expression for the rate-refresh job.
	RefreshSchedule string
	// Currencies to keep warm in the rate cache.
	Currencies []string
}

// Load reads configuration from the environment, applying defaults for
// everything that is not set. A .env file is honored when present.
func Load() (*Config, error) {
	// Best effort; environment variables win over the file
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnv("DB_PORT", "5432"),
			User:           getEnv("DB_USER", "postgres"),
			Password:       getEnv("DB_PASSWORD", "postgres"),
			Database:       getEnv("DB_NAME", "portfolio"),
			SSLMode:        getEnv("DB_SSLMODE", "disable"),
			MigrationsPath: getEnv("DB_MIGRATIONS_PATH", "migrations"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getEnvBool("LOG_PRETTY", false),
		},
		OpenAI: OpenAIConfig{
			APIKey: getEnv("OPENAI_API_KEY", ""),
			APIURL: getEnv("OPENAI_API_URL", "https://api.openai.com/v1/chat/completions"),
			Model:  getEnv("OPENAI_MODEL", "gpt-4o"),
		},
		Bundesbank: BundesbankConfig{
			APIURL:          getEnv("BUNDESBANK_API_URL", "https://api.statistiken.bundesbank.de/rest"),
			Flow:            getEnv("BUNDESBANK_FLOW", "BBEX3"),
			RefreshSchedule: getEnv("RATES_REFRESH_SCHEDULE", "@hourly"),
			Currencies:      []string{"USD", "GBP", "CHF", "JPY"},
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ConnectionString builds the lib/pq connection string
func (d DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode)
}

// URL builds the postgres:// URL used by the migration tool
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Database, d.SSLMode)
}

func (c *Config) validate() error {
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("invalid SERVER_PORT %q: %w", c.Server.Port, err)
	}
	if c.Database.Database == "" {
		return fmt.Errorf("DB_NAME must not be empty")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
