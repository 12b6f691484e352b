package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// DevServer configures the in-memory development backend.
// Environment variables are parsed from the SPLINTERSTICE_DEVSERVER_ prefix.
type DevServer struct {
	HTTPPort        int           `envconfig:"HTTP_PORT" default:"3000"`
	BasePath        string        `envconfig:"BASE_PATH" default:"/api"`
	MaxUploadBytes  int64         `envconfig:"MAX_UPLOAD_BYTES" default:"33554432"`
	HistoryLimit    int           `envconfig:"HISTORY_LIMIT" default:"500"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
}

// NewDevServer parses and validates the dev backend configuration.
func NewDevServer() (*DevServer, error) {
	var cfg DevServer
	if err := envconfig.Process("SPLINTERSTICE_DEVSERVER", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Info().
		Int("port", cfg.HTTPPort).
		Str("base_path", cfg.BasePath).
		Int64("max_upload_bytes", cfg.MaxUploadBytes).
		Int("history_limit", cfg.HistoryLimit).
		Msg("Configuration loaded")

	return &cfg, nil
}

// Validate checks ranges and normalises BasePath to "/x" form ("" for root).
func (c *DevServer) Validate() error {
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP_PORT: %d", c.HTTPPort)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be > 0")
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("HISTORY_LIMIT must be > 0")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be > 0")
	}
	c.BasePath = strings.TrimRight(c.BasePath, "/")
	if c.BasePath != "" && !strings.HasPrefix(c.BasePath, "/") {
		c.BasePath = "/" + c.BasePath
	}
	return nil
}

// GetHTTPAddr returns the HTTP server address
func (c *DevServer) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
