// Package config loads the application configuration from environment
// variables and an optional .env file. The resulting struct is built once in
// main and passed by reference; nothing reads ambient environment state after
// startup.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the application configuration.
type Config struct {
	Port     string
	DBPath   string
	Google   GoogleConfig
	Session  SessionConfig
	LogLevel string
	LogJSON  bool
}

// GoogleConfig holds the OAuth2 client settings used for login and for the
// per-user Sheets access.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// SessionConfig holds session cookie settings.
type SessionConfig struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Load loads configuration from environment variables. A .env file in the
// working directory is applied first when present; a custom path can be given.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	ttlHours, err := parseIntEnv("SESSION_TTL_HOURS", 24*14)
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL_HOURS: %w", err)
	}

	cfg := &Config{
		Port:   getEnvOrDefault("PORT", "8080"),
		DBPath: getEnvOrDefault("DB_PATH", "./data/ledgersheet.db"),
		Google: GoogleConfig{
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			RedirectURL:  getEnvOrDefault("GOOGLE_REDIRECT_URL", "http://localhost:8080/auth/callback"),
		},
		Session: SessionConfig{
			CookieName: getEnvOrDefault("SESSION_COOKIE", "ledgersheet_session"),
			TTL:        time.Duration(ttlHours) * time.Hour,
			Secure:     os.Getenv("SESSION_SECURE") == "true",
		},
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		LogJSON:  os.Getenv("LOG_FORMAT") == "json",
	}

	return cfg, nil
}

// Validate checks that the fields required to run the server are set.
func (c *Config) Validate() error {
	if c.Google.ClientID == "" {
		return fmt.Errorf("GOOGLE_CLIENT_ID is required")
	}
	if c.Google.ClientSecret == "" {
		return fmt.Errorf("GOOGLE_CLIENT_SECRET is required")
	}
	return nil
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseIntEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}
