// Package config provides application configuration management.
// It loads settings from environment variables (with .env support) and
// refuses to start when any required Messenger credential is absent.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Menu navigation modes accepted by MENU_MODE.
const (
	MenuModeLinear    = "linear"
	MenuModeBranching = "branching"
)

// Config holds all application configuration.
type Config struct {
	// Messenger Platform credentials (all required)
	AppSecret       string // HMAC key for X-Hub-Signature verification
	VerifyToken     string // webhook subscription handshake token
	PageAccessToken string // Graph API send credential
	ServerURL       string // public HTTPS base URL for hosted screenshot assets

	// Menu Configuration
	MenuMode string // "linear" or "branching", fixed at startup

	// Graph API Configuration
	GraphAPIBaseURL string
	SendRateRPS     float64 // outbound Send API rate limit (requests per second)
	SendRateBurst   int     // outbound Send API burst size
	SendTimeout     time.Duration

	// Per-sender flood control
	UserRateBurst  int     // events one sender may burst before throttling
	UserRateRefill float64 // tokens refilled per second per sender

	// Server Configuration
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration

	// Metrics Authentication
	MetricsUsername string // Username for /metrics endpoint Basic Auth
	MetricsPassword string // Password for /metrics endpoint Basic Auth (empty = no auth)

	// Error tracking (optional)
	SentryDSN   string
	Environment string

	// Log shipping (optional)
	BetterstackToken    string
	BetterstackEndpoint string
}

// Load reads configuration from environment variables.
// It attempts to load a .env file first, then reads from env vars.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		AppSecret:       getEnv("APP_SECRET", ""),
		VerifyToken:     getEnv("VERIFY_TOKEN", ""),
		PageAccessToken: getEnv("PAGE_ACCESS_TOKEN", ""),
		ServerURL:       getEnv("SERVER_URL", ""),

		MenuMode: getEnv("MENU_MODE", MenuModeLinear),

		GraphAPIBaseURL: getEnv("GRAPH_API_BASE_URL", "https://graph.facebook.com/v19.0"),
		SendRateRPS:     getFloatEnv("SEND_RATE_RPS", 25.0),
		SendRateBurst:   getIntEnv("SEND_RATE_BURST", 50),
		SendTimeout:     getDurationEnv("SEND_TIMEOUT", 10*time.Second),

		UserRateBurst:  getIntEnv("USER_RATE_BURST", 15),
		UserRateRefill: getFloatEnv("USER_RATE_REFILL", 0.5),

		Port:            getEnv("PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 15*time.Second),

		MetricsUsername: getEnv("METRICS_USERNAME", "prometheus"),
		MetricsPassword: getEnv("METRICS_PASSWORD", ""),

		SentryDSN:   getEnv("SENTRY_DSN", ""),
		Environment: getEnv("ENVIRONMENT", "production"),

		BetterstackToken:    getEnv("BETTERSTACK_TOKEN", ""),
		BetterstackEndpoint: getEnv("BETTERSTACK_ENDPOINT", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration values are set.
func (c *Config) Validate() error {
	var errs []error

	if c.AppSecret == "" {
		errs = append(errs, errors.New("APP_SECRET is required"))
	}
	if c.VerifyToken == "" {
		errs = append(errs, errors.New("VERIFY_TOKEN is required"))
	}
	if c.PageAccessToken == "" {
		errs = append(errs, errors.New("PAGE_ACCESS_TOKEN is required"))
	}
	if c.ServerURL == "" {
		errs = append(errs, errors.New("SERVER_URL is required"))
	} else if u, err := url.Parse(c.ServerURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("SERVER_URL must be an absolute URL, got %q", c.ServerURL))
	}
	if c.MenuMode != MenuModeLinear && c.MenuMode != MenuModeBranching {
		errs = append(errs, fmt.Errorf("MENU_MODE must be %q or %q, got %q", MenuModeLinear, MenuModeBranching, c.MenuMode))
	}
	if c.GraphAPIBaseURL == "" {
		errs = append(errs, errors.New("GRAPH_API_BASE_URL is required"))
	}
	if c.SendRateRPS <= 0 {
		errs = append(errs, fmt.Errorf("SEND_RATE_RPS must be positive, got %v", c.SendRateRPS))
	}
	if c.SendRateBurst <= 0 {
		errs = append(errs, fmt.Errorf("SEND_RATE_BURST must be positive, got %d", c.SendRateBurst))
	}
	if c.SendTimeout <= 0 {
		errs = append(errs, fmt.Errorf("SEND_TIMEOUT must be positive, got %v", c.SendTimeout))
	}
	if c.UserRateBurst <= 0 {
		errs = append(errs, fmt.Errorf("USER_RATE_BURST must be positive, got %d", c.UserRateBurst))
	}
	if c.UserRateRefill <= 0 {
		errs = append(errs, fmt.Errorf("USER_RATE_REFILL must be positive, got %v", c.UserRateRefill))
	}
	if c.Port == "" {
		errs = append(errs, errors.New("PORT is required"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// AssetBaseURL returns the base URL step screenshots are served under.
func (c *Config) AssetBaseURL() string {
	return strings.TrimRight(c.ServerURL, "/") + "/assets/screenshots"
}

// getEnv retrieves environment variable with fallback to default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv retrieves integer environment variable with fallback to default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getDurationEnv retrieves duration environment variable with fallback to default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getFloatEnv retrieves float64 environment variable with fallback to default value
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
