package client

// This file defines functional options that configure the Client during
// construction. Keeping them in a standalone file avoids cluttering
// client.go and makes it easy to discover all available knobs at a glance.

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Option configures a Client during construction in New.
//
// Options only record settings; the transport stack (proxy, debug logging,
// header injection) is assembled once after all options have run, so the
// order of options does not change the resulting stack.
type Option func(*Client) error

// WithHTTPClient makes the SDK use a copy of hc. The caller's client is
// never mutated.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return fmt.Errorf("http client must not be nil")
		}
		cp := *hc
		c.http = &cp
		return nil
	}
}

// WithHTTPTimeout sets the underlying http.Client Timeout used by the SDK.
//
// Prefer per-request context deadlines where possible; this timeout is a
// coarse safety net that bounds the total time spent on a single HTTP request.
// The value must be greater than zero.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.http.Timeout = d
		return nil
	}
}

// WithAPIKey sends key as a bearer token on every request.
func WithAPIKey(key string) Option {
	return func(c *Client) error {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("api key must not be empty")
		}
		c.apiKey = key
		return nil
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) error {
		c.userAgent = ua
		return nil
	}
}

// WithProxyURL routes all requests through the proxy at raw. Supported
// schemes are http, https and socks5, which covers a local TOR SOCKS port
// (socks5://127.0.0.1:9050) and the I2P HTTP proxy (http://127.0.0.1:4444).
// An empty string leaves proxying disabled.
func WithProxyURL(raw string) Option {
	return func(c *Client) error {
		if raw == "" {
			return nil
		}
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid proxy url: %w", err)
		}
		switch u.Scheme {
		case "http", "https", "socks5":
		default:
			return fmt.Errorf("unsupported proxy scheme %q", u.Scheme)
		}
		if u.Host == "" {
			return fmt.Errorf("proxy url %q has no host", raw)
		}
		c.proxyURL = u
		return nil
	}
}

// WithDebugLogging logs each request/response through zerolog when enabled
// is true.
//
// Do not enable this option in production environments as it increases
// verbosity and dumps bodies, including message text and keys.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		c.debug = c.debug || enabled
		return nil
	}
}
