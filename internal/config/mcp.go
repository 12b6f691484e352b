package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Stdio transport modes.
const (
	StdioAuto = "auto"
	StdioOn   = "true"
	StdioOff  = "false"
)

// MCP configures the MCP tool server. Environment variables are parsed from
// the SPLINTERSTICE_MCP_ prefix; the chat client itself is configured by Config.
type MCP struct {
	ServerName    string `envconfig:"SERVER_NAME" default:"splinterstice-mcp-server"`
	ServerVersion string `envconfig:"SERVER_VERSION" default:"0.1.0"`

	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":3001"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	HTTPReadTimeout time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"30s"`
	HTTPIdleTimeout time.Duration `envconfig:"HTTP_IDLE_TIMEOUT" default:"120s"`

	// Stdio selects the transport: auto (stdin is not a terminal), true or false.
	Stdio string `envconfig:"STDIO" default:"auto"`
}

// NewMCP parses and validates the MCP server configuration.
func NewMCP() (*MCP, error) {
	var cfg MCP
	if err := envconfig.Process("SPLINTERSTICE_MCP", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	switch cfg.Stdio {
	case StdioAuto, StdioOn, StdioOff:
	default:
		return nil, fmt.Errorf("invalid STDIO %q: want auto, true or false", cfg.Stdio)
	}
	if cfg.ShutdownTimeout <= 0 {
		return nil, fmt.Errorf("SHUTDOWN_TIMEOUT must be > 0")
	}
	return &cfg, nil
}
