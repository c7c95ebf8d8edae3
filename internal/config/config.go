// Package config provides configuration loading from environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Static errors for configuration validation.
var (
	// ErrFalAPIKeyRequired is returned when FAL_API_KEY is not set.
	ErrFalAPIKeyRequired = errors.New("config: FAL_API_KEY is required")
)

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	Port          int    `env:"PORT, default=8080" json:"port"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL, default=http://localhost:8080" json:"public_base_url"`

	// Database settings. An empty DATABASE_URL runs the service on in-memory
	// repositories (development only; nothing survives a restart).
	DatabaseURL string `env:"DATABASE_URL" json:"-"` // Masked in JSON

	// Provider settings
	FalAPIKey        string        `env:"FAL_API_KEY, required" json:"-"` // Masked in JSON
	FalBaseURL       string        `env:"FAL_BASE_URL, default=https://fal.run" json:"fal_base_url"`
	FalModel         string        `env:"FAL_MODEL, default=fal-ai/video-face-swap" json:"fal_model"`
	GenerationBudget time.Duration `env:"GENERATION_BUDGET, default=12m" json:"generation_budget"`

	// Blob storage settings. Without an S3 bucket the local-disk backend is
	// used and objects are served from this process.
	StorageDir         string `env:"STORAGE_DIR, default=/tmp/vidswap" json:"storage_dir"`
	S3Bucket           string `env:"S3_BUCKET" json:"s3_bucket,omitempty"`
	S3Region           string `env:"S3_REGION" json:"s3_region,omitempty"`
	S3Endpoint         string `env:"S3_ENDPOINT" json:"s3_endpoint,omitempty"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID" json:"-"`     // Masked in JSON
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" json:"-"` // Masked in JSON

	// Notification settings. Without an SMTP host, completion emails are dropped.
	SMTPHost     string `env:"SMTP_HOST" json:"smtp_host,omitempty"`
	SMTPPort     int    `env:"SMTP_PORT, default=587" json:"smtp_port"`
	SMTPUsername string `env:"SMTP_USERNAME" json:"-"` // Masked in JSON
	SMTPPassword string `env:"SMTP_PASSWORD" json:"-"` // Masked in JSON
	EmailFrom    string `env:"EMAIL_FROM" json:"email_from,omitempty"`

	// Moderation settings. An empty key disables the moderation endpoint.
	AdminAPIKey string `env:"ADMIN_API_KEY" json:"-"` // Masked in JSON

	// Upload constraint settings
	MaxVideoMB      int `env:"MAX_VIDEO_MB, default=50" json:"max_video_mb"`
	MinVideoSeconds int `env:"MIN_VIDEO_SECONDS, default=1" json:"min_video_seconds"`
	MaxVideoSeconds int `env:"MAX_VIDEO_SECONDS, default=30" json:"max_video_seconds"`
	MinImagePixels  int `env:"MIN_IMAGE_PIXELS, default=256" json:"min_image_pixels"`

	// Logging settings
	LogFormat string `env:"LOG_FORMAT, default=text" json:"log_format"` // "json" or "text"
	LogLevel  string `env:"LOG_LEVEL, default=info" json:"log_level"`   // "debug", "info", "warn", "error"
}

// S3Enabled returns true if S3 configuration is provided.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != "" && c.S3Region != ""
}

// SMTPEnabled returns true if SMTP configuration is provided.
func (c *Config) SMTPEnabled() bool {
	return c.SMTPHost != "" && c.EmailFrom != ""
}

// DatabaseEnabled returns true if a database DSN is provided.
func (c *Config) DatabaseEnabled() bool {
	return c.DatabaseURL != ""
}

// Load reads configuration from environment variables using go-envconfig.
// It returns an error if required variables are not set.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := envconfig.Process(context.Background(), cfg); err != nil {
		if strings.Contains(err.Error(), "FAL_API_KEY") {
			return nil, ErrFalAPIKeyRequired
		}
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration is present.
func (c *Config) Validate() error {
	if c.FalAPIKey == "" {
		return ErrFalAPIKeyRequired
	}
	return nil
}

// NewLogger creates a structured logger based on the configuration.
// When LogFormat is "json", it outputs JSON logs suitable for production.
// Otherwise, it outputs human-readable text logs.
func (c *Config) NewLogger() *slog.Logger {
	level := parseLogLevel(c.LogLevel)

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}

	return slog.New(handler)
}

// String returns a string representation of the config with sensitive values masked.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Port: %d, PublicBaseURL: %s, FalModel: %s, GenerationBudget: %s, S3Bucket: %s, S3Region: %s, SMTPHost: %s, LogFormat: %s, LogLevel: %s}",
		c.Port,
		c.PublicBaseURL,
		c.FalModel,
		c.GenerationBudget,
		c.S3Bucket,
		c.S3Region,
		c.SMTPHost,
		c.LogFormat,
		c.LogLevel,
	)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
