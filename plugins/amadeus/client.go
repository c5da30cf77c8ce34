// Package amadeus is a thin client for the Amadeus self-service search APIs.
// Response bodies are returned as raw JSON; only activity prices are rewritten.
package amadeus

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/va6996/amadeus-mcp/config"
	reqcontext "github.com/va6996/amadeus-mcp/context"
	"github.com/va6996/amadeus-mcp/log"
	"github.com/va6996/amadeus-mcp/plugins/currency"
)

const (
	BaseURLTest       = "https://test.api.amadeus.com"
	BaseURLProduction = "https://api.amadeus.com"
)

// CredentialsFunc supplies credentials for each call.
type CredentialsFunc func() (config.Credentials, error)

// Client is the main Amadeus API client
type Client struct {
	BaseURL     string
	HTTPClient  *http.Client
	Tokens      *TokenCache
	Rates       *currency.RateTable
	Credentials CredentialsFunc
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithBaseURL points the client, and its token cache, at another host.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.BaseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithCredentials replaces the per-call credentials source.
func WithCredentials(fn CredentialsFunc) ClientOption {
	return func(c *Client) { c.Credentials = fn }
}

// WithTokenClock overrides the token cache clock.
func WithTokenClock(now Clock) ClientOption {
	return func(c *Client) { c.Tokens.Now = now }
}

// NewClient creates a new Amadeus client
func NewClient(cfg config.AmadeusConfig, rates *currency.RateTable, opts ...ClientOption) *Client {
	baseURL := BaseURLTest
	if cfg.Production {
		baseURL = BaseURLProduction
	}
	if cfg.BaseURL != "" {
		baseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	httpClient := &http.Client{Timeout: timeout}

	if rates == nil {
		rates = currency.NewRateTable(nil)
	}

	c := &Client{
		BaseURL:     baseURL,
		HTTPClient:  httpClient,
		Tokens:      NewTokenCache(baseURL, httpClient, cfg.TokenTTL),
		Rates:       rates,
		Credentials: config.LoadCredentials,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Tokens.BaseURL = c.BaseURL

	return c
}

// get performs an authenticated GET and returns the body of a 2xx response.
// op names the search in error messages.
func (c *Client) get(ctx context.Context, op, endpoint string, query url.Values) (json.RawMessage, error) {
	creds, err := c.Credentials()
	if err != nil {
		return nil, &AuthError{Detail: err.Error(), Err: err}
	}

	token, err := c.Tokens.Token(ctx, creds)
	if err != nil {
		return nil, err
	}

	target := c.BaseURL + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &UpstreamError{Op: op, Detail: err.Error(), Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if requestID := reqcontext.RequestIDFromContext(ctx); requestID != "" {
		req.Header.Set("X-Request-Id", requestID)
	}

	log.Debugf(ctx, "Amadeus GET %s", endpoint)
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		log.Errorf(ctx, "Amadeus API request failed: %v", err)
		return nil, &UpstreamError{Op: op, Detail: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{Op: op, Status: resp.StatusCode, Detail: err.Error(), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Errorf(ctx, "%s search: API returned status %s", op, resp.Status)
		return nil, &UpstreamError{Op: op, Status: resp.StatusCode, Detail: errorDetail(body, resp.StatusCode)}
	}

	return json.RawMessage(body), nil
}
