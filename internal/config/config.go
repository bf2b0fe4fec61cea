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
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	TLSCertFile string
	TLSKeyFile  string

	// API access.
	TokenKey       string
	AccessKeyHash  string
	TokenTTL       time.Duration
	RateLimitRPS   float64
	RateLimitBurst int

	ReportAuthor string
	BotToken     string
}

// Load reads an optional .env file and then the environment, applying
// defaults where unset.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	tokenTTL, err := parseDuration("TOKEN_TTL", "720h")
	if err != nil {
		return nil, err
	}

	rps, err := strconv.ParseFloat(envOrDefault("RATE_LIMIT_RPS", "1"), 64)
	if err != nil || rps <= 0 {
		return nil, errors.New("invalid RATE_LIMIT_RPS")
	}
	burst, err := strconv.Atoi(envOrDefault("RATE_LIMIT_BURST", "3"))
	if err != nil || burst <= 0 {
		return nil, errors.New("invalid RATE_LIMIT_BURST")
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		TLSCertFile:     os.Getenv("TLS_CERT_FILE"),
		TLSKeyFile:      os.Getenv("TLS_KEY_FILE"),
		TokenKey:        os.Getenv("TOKEN_KEY"),
		AccessKeyHash:   os.Getenv("ACCESS_KEY_HASH"),
		TokenTTL:        tokenTTL,
		RateLimitRPS:    rps,
		RateLimitBurst:  burst,
		ReportAuthor:    envOrDefault("REPORT_AUTHOR", "Floe"),
		BotToken:        os.Getenv("TOKEN_BOT"),
	}

	if (cfg.TLSCertFile == "") != (cfg.TLSKeyFile == "") {
		return nil, errors.New("TLS_CERT_FILE and TLS_KEY_FILE must be set together")
	}

	return cfg, nil
}

// TLSEnabled reports whether both certificate and key are configured.
func (c *Config) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

// RequireServer validates the settings the HTTP API cannot start without.
func (c *Config) RequireServer() error {
	if c.TokenKey == "" {
		return errors.New("TOKEN_KEY is required")
	}
	if c.AccessKeyHash == "" {
		return errors.New("ACCESS_KEY_HASH is required")
	}
	return nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}
