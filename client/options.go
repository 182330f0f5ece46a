package client

// This file defines functional options that configure the Client during
// construction. Keeping them in a standalone file avoids cluttering
// client.go and makes it easy to discover all available knobs at a glance.

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Option configures a Client during construction in New.
//
// Options are applied before the authorization transport wrapper is installed,
// so transport-related options (like debug logging) will be placed underneath
// the bearer-token wrapper. Options must be deterministic and side-effect free.
type Option func(*Client) error

// WithHTTPTimeout sets the Timeout on both underlying http.Clients, the one
// talking to the backend and the one talking to GitHub.
//
// Prefer per-request context deadlines where possible; this timeout is a
// coarse safety net that bounds the total time spent on a single HTTP request
// (including connection, TLS handshake, redirects, and reading the response).
// The value must be greater than zero.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.http.Timeout = d
		c.github.Timeout = d
		return nil
	}
}

// WithHTTPClient replaces the http.Client used for backend requests. The
// GitHub client is unaffected. Useful for tests and for callers that need
// custom transports, proxies or TLS settings.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return fmt.Errorf("http client cannot be nil")
		}
		c.http = hc
		return nil
	}
}

// WithAPIToken configures a bearer token that is attached to every backend
// request. GitHub requests never carry it.
func WithAPIToken(token string) Option {
	return func(c *Client) error {
		c.apiToken = token
		return nil
	}
}

// WithGitHubBaseURL overrides the GitHub API base URL. Intended for tests
// pointed at a local stub.
func WithGitHubBaseURL(u string) Option {
	return func(c *Client) error {
		if u == "" {
			return fmt.Errorf("github base URL cannot be empty")
		}
		c.githubURL = strings.TrimRight(u, "/")
		return nil
	}
}

// WithDebugLogging wraps both transports so each request/response is logged
// when enabled is true.
//
// The debug transport is installed beneath the bearer-token wrapper; logs are
// emitted before the request is forwarded to the next transport.
// Do not enable this option in production environments as it increases
// verbosity and may include headers and method/URL metadata in logs.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		if enabled {
			c.http.Transport = &debugTransport{base: c.http.Transport}
			c.github.Transport = &debugTransport{base: c.github.Transport}
		}
		return nil
	}
}
