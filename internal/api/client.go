// Package api provides the read-only HTTP client for the hosted allocation
// data API (a PostgREST endpoint).
//
// The client supports:
// - Hardened TLS 1.2/1.3 configuration with secure cipher suites
// - Static key authentication via both the apikey and Authorization headers
// - Request timeouts and connection pooling
// - JSON response parsing with memory limits
// - Request logging
//
// There is deliberately no retry loop: a failed read is reported to the
// caller, and a page reload is the only refresh mechanism.
package api

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// ErrMissingConfig is returned when the base URL or API key is not configured.
var ErrMissingConfig = errors.New("missing data source URL or anon key")

// StatusError is returned for any non-2xx response.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string // First 1KB of the response body
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API returned status %d: %s - %s", e.StatusCode, e.Status, e.Body)
}

// Options configures a Client.
type Options struct {
	BaseURL    string        // Project base URL; "/rest/v1/<view>" is appended
	APIKey     string        // Static read-only key
	View       string        // Allocation view name
	Timeout    time.Duration // Whole-request timeout (default 30s)
	HTTPClient *http.Client  // Optional; overrides the hardened default client
}

// Client represents the HTTP client for the allocation data API
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	view       string
}

// NewClient creates a new API client instance with hardened TLS configuration.
// An empty base URL or key is accepted here; requests then fail with
// ErrMissingConfig so the caller can surface it.
func NewClient(opts Options) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid base URL: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return nil, fmt.Errorf("invalid base URL scheme: %q", u.Scheme)
		}
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = newHardenedHTTPClient(timeout)
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(opts.APIKey),
		view:       opts.View,
	}, nil
}

// newHardenedHTTPClient builds an HTTP client that enforces TLS 1.2+ with
// AEAD-preferred cipher suites, verified certificates and bounded pooling.
func newHardenedHTTPClient(timeout time.Duration) *http.Client {
	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
		MaxVersion: tls.VersionTLS13,

		// Secure cipher suites for TLS 1.2 (TLS 1.3 manages its own)
		CipherSuites: []uint16{
			tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
			tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
			tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256,
			tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256,
		},

		ClientSessionCache: tls.NewLRUClientSessionCache(0),
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		TLSClientConfig:       tlsConfig,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   5,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// Configured reports whether both the base URL and key are set.
func (c *Client) Configured() bool {
	return c.baseURL != "" && c.apiKey != ""
}

// newRequest builds an authenticated GET request for the given URL.
// The key is sent twice: PostgREST gateways read "apikey" while the
// database role is taken from the bearer token.
func (c *Client) newRequest(ctx context.Context, rawURL string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	return req, nil
}

// logRequest logs API request details for monitoring and debugging.
// The URL never contains the key.
func (c *Client) logRequest(rawURL string, duration time.Duration, err error) {
	fields := log.Fields{
		"url":      rawURL,
		"duration": duration,
	}

	if err != nil {
		log.WithFields(fields).WithError(err).Error("API request failed")
	} else {
		log.WithFields(fields).Debug("API request successful")
	}
}

// Close cleans up idle connections. Should be called during application shutdown.
func (c *Client) Close() error {
	if transport, ok := c.httpClient.Transport.(*http.Transport); ok {
		transport.CloseIdleConnections()
	}
	return nil
}
