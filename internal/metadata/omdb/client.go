// Package omdb is a client for OMDb-shaped movie catalogs: free-text search, lookup by id, and lookup by exact title.
//
// The catalog marks absent values with the literal string "N/A". This package converts those to empty strings
// and nil ratings so nothing downstream has to know about the sentinel.
package omdb

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/cinescope/cinescope-server/internal/domain"
)

const (
	// DefaultBaseURL is the public OMDb endpoint.
	DefaultBaseURL = "https://www.omdbapi.com/"

	// PageSize is the fixed number of items the catalog returns per search page.
	PageSize = 10

	maxErrorBody = 4 << 10
)

// Config configures a Client.
type Config struct {
	BaseURL string
	APIKey  string

	// Timeout bounds each request. Zero means no timeout.
	Timeout time.Duration
}

//go:generate mockgen -destination=omdbmock/catalog.go -package=omdbmock . Catalog

// Client talks to the remote catalog. Calls are independent and never retried.
type Client struct {
	http    *http.Client
	baseURL *url.URL
	apiKey  string
	logger  *slog.Logger
}

// New creates a catalog client.
func New(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse catalog base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("catalog base url must be http or https, got %q", cfg.BaseURL)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		http:    &http.Client{Timeout: cfg.Timeout},
		baseURL: base,
		apiKey:  cfg.APIKey,
		logger:  logger,
	}, nil
}

// BaseURL returns the catalog endpoint without credentials.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Configured reports whether the client has an API key.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Close releases idle connections.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

// get issues one GET with the given parameters and decodes the JSON body into dst.
func (c *Client) get(ctx context.Context, op string, params url.Values, dst any) error {
	params.Set("apikey", c.apiKey)

	u := *c.baseURL
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Cinescope/1.0")

	c.logger.Debug("catalog request", "op", op, "s", params.Get("s"), "i", params.Get("i"), "t", params.Get("t"), "page", params.Get("page"))

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("catalog response", "op", op, "status", resp.StatusCode, "duration", time.Since(start))

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized:
		// The catalog reports both a bad key and an exhausted daily quota as 401.
		var env envelope
		if body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)); readErr == nil {
			_ = json.Unmarshal(body, &env)
		}
		if isQuotaMessage(env.Error) {
			return ErrRateLimited
		}
		return ErrUnauthorized
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case resp.StatusCode == http.StatusBadRequest:
		return ErrBadRequest
	case resp.StatusCode >= 500:
		return ErrServer
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.UnmarshalRead(resp.Body, dst); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

// Catalog is the set of lookups the Client offers. Consumers declare narrower interfaces of their own.
type Catalog interface {
	Search(ctx context.Context, params SearchParams) (*SearchPage, error)
	GetByID(ctx context.Context, id string) (*domain.Detail, error)
	GetByTitle(ctx context.Context, title string) (*domain.Detail, error)
}

var _ Catalog = (*Client)(nil)
