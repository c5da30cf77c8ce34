package amadeus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/Songmu/flextime"
	"github.com/va6996/amadeus-mcp/config"
	"github.com/va6996/amadeus-mcp/log"
)

// DefaultTokenTTL is shorter than the provider's token lifetime on purpose.
const DefaultTokenTTL = 25 * time.Minute

// Clock returns the current time. It enables deterministic tests.
type Clock func() time.Time

// AuthToken represents the OAuth2 token response
type AuthToken struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

type tokenState struct {
	token     string
	expiresAt time.Time
}

// TokenCache holds one bearer token and refreshes it on demand. Concurrent
// callers that find it expired may each fetch a token; the last write wins.
type TokenCache struct {
	BaseURL    string
	HTTPClient *http.Client
	TTL        time.Duration
	Now        Clock

	state atomic.Pointer[tokenState]
}

// NewTokenCache creates a cache that exchanges credentials at baseURL.
func NewTokenCache(baseURL string, httpClient *http.Client, ttl time.Duration) *TokenCache {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &TokenCache{
		BaseURL:    baseURL,
		HTTPClient: httpClient,
		TTL:        ttl,
		Now:        flextime.Now,
	}
}

// Token returns the cached token while now < expiresAt, otherwise performs a
// client-credentials exchange and caches the result.
func (c *TokenCache) Token(ctx context.Context, creds config.Credentials) (string, error) {
	if st := c.state.Load(); st != nil && c.Now().Before(st.expiresAt) {
		return st.token, nil
	}

	if !creds.Complete() {
		return "", &AuthError{Detail: "AMADEUS_API_KEY and AMADEUS_API_SECRET must be set"}
	}

	issuedAt := c.Now()
	token, err := c.exchange(ctx, creds)
	if err != nil {
		return "", err
	}

	ttl := c.TTL
	if lifetime := time.Duration(token.ExpiresIn) * time.Second; lifetime > 0 && lifetime < ttl {
		ttl = lifetime
	}
	c.state.Store(&tokenState{token: token.AccessToken, expiresAt: issuedAt.Add(ttl)})
	log.Debugf(ctx, "Obtained Amadeus access token, valid for %s", ttl)

	return token.AccessToken, nil
}

// ExpiresAt reports the expiry of the cached token, zero when none is cached.
func (c *TokenCache) ExpiresAt() time.Time {
	if st := c.state.Load(); st != nil {
		return st.expiresAt
	}
	return time.Time{}
}

// Invalidate drops the cached token.
func (c *TokenCache) Invalidate() {
	c.state.Store(nil)
}

func (c *TokenCache) exchange(ctx context.Context, creds config.Credentials) (*AuthToken, error) {
	data := url.Values{}
	data.Set("grant_type", "client_credentials")
	data.Set("client_id", creds.APIKey)
	data.Set("client_secret", creds.APISecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/security/oauth2/token", bytes.NewBufferString(data.Encode()))
	if err != nil {
		return nil, &AuthError{Detail: err.Error(), Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		log.Errorf(ctx, "Amadeus token request failed: %v", err)
		return nil, &AuthError{Detail: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &AuthError{Status: resp.StatusCode, Detail: err.Error(), Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &AuthError{Status: resp.StatusCode, Detail: oauthErrorDetail(body, resp.StatusCode)}
	}

	var token AuthToken
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, &AuthError{Status: resp.StatusCode, Detail: fmt.Sprintf("decode token response: %v", err), Err: err}
	}
	if token.AccessToken == "" {
		return nil, &AuthError{Status: resp.StatusCode, Detail: "no access token received from Amadeus API"}
	}

	return &token, nil
}
