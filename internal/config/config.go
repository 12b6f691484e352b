package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/splinterstice/clientapp/client"
)

// Config holds the client-side settings shared by the CLI and the MCP server.
// Environment variables are parsed from the SPLINTERSTICE_ prefix.
type Config struct {
	BaseURL     string        `envconfig:"BASE_URL" default:"http://localhost:3000/api"`
	APIKey      string        `envconfig:"API_KEY" default:""`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`

	// ProxyURL routes traffic through a local TOR (socks5://) or I2P (http://) proxy.
	ProxyURL string `envconfig:"PROXY_URL" default:""`

	Debug     bool   `envconfig:"DEBUG" default:"false"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	UserAgent string `envconfig:"USER_AGENT" default:""`
}

// New creates a new Config by parsing environment variables
// Example: SPLINTERSTICE_BASE_URL, SPLINTERSTICE_API_KEY
func New() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load parses the environment without validating it, so callers can apply
// overrides (command-line flags) first and call Validate afterwards. A parse
// error means some fields may be unset and the result is not returned.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("SPLINTERSTICE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	return &cfg, nil
}

// Validate checks the base URL and timeout.
func (c *Config) Validate() error {
	u, err := url.Parse(strings.TrimSpace(c.BaseURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid BASE_URL %q: must be an absolute http(s) URL", c.BaseURL)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be > 0, got %s", c.HTTPTimeout)
	}
	return nil
}

// ClientOptions maps the configuration onto client options.
func (c *Config) ClientOptions() []client.Option {
	opts := []client.Option{client.WithHTTPTimeout(c.HTTPTimeout)}
	if c.APIKey != "" {
		opts = append(opts, client.WithAPIKey(c.APIKey))
	}
	if c.ProxyURL != "" {
		opts = append(opts, client.WithProxyURL(c.ProxyURL))
	}
	if c.UserAgent != "" {
		opts = append(opts, client.WithUserAgent(c.UserAgent))
	}
	if c.Debug {
		opts = append(opts, client.WithDebugLogging(true))
	}
	return opts
}

// NewClient builds a client for BaseURL from the configuration.
func (c *Config) NewClient() (*client.Client, error) {
	return client.New(c.BaseURL, c.ClientOptions()...)
}
