package ebay

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/tgrenier/marketly/internal/metrics"
)

const (
	defaultTokenURL = "https://api.ebay.com/identity/v1/oauth2/token" //nolint:gosec // not a credential
	defaultScope    = "https://api.ebay.com/oauth/api_scope"

	// refreshBuffer is the safety margin before expiry at which a cached
	// token is considered stale.
	refreshBuffer = 30 * time.Second
)

// ErrMissingCredentials indicates the provider was built without a
// client id or secret. Callers treat it like any other credential
// failure: the connector degrades, the process keeps running.
var ErrMissingCredentials = errors.New("ebay credentials not configured")

// OAuthTokenProvider implements TokenProvider using the eBay OAuth2
// client-credentials flow. Tokens are cached and refreshed when absent
// or within refreshBuffer of expiry. Thread-safe via mutex.
type OAuthTokenProvider struct {
	clientID     string
	clientSecret string
	tokenURL     string
	scope        string
	client       *http.Client

	mu      sync.Mutex
	token   string
	expiry  time.Time
	nowFunc func() time.Time // for testing
}

// OAuthOption configures the OAuthTokenProvider.
type OAuthOption func(*OAuthTokenProvider)

// WithTokenURL overrides the default eBay token endpoint.
func WithTokenURL(u string) OAuthOption {
	return func(p *OAuthTokenProvider) {
		p.tokenURL = u
	}
}

// WithScope overrides the default OAuth scope.
func WithScope(s string) OAuthOption {
	return func(p *OAuthTokenProvider) {
		p.scope = s
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(c *http.Client) OAuthOption {
	return func(p *OAuthTokenProvider) {
		p.client = c
	}
}

// WithNowFunc overrides the time function for testing.
func WithNowFunc(f func() time.Time) OAuthOption {
	return func(p *OAuthTokenProvider) {
		p.nowFunc = f
	}
}

// NewOAuthTokenProvider creates a token provider for the given client
// credentials.
func NewOAuthTokenProvider(clientID, clientSecret string, opts ...OAuthOption) *OAuthTokenProvider {
	p := &OAuthTokenProvider{
		clientID:     clientID,
		clientSecret: clientSecret,
		tokenURL:     defaultTokenURL,
		scope:        defaultScope,
		client:       &http.Client{Timeout: 10 * time.Second},
		nowFunc:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

type tokenErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// Token returns a valid access token, refreshing if necessary. A failed
// refresh never leaves a stale token behind.
func (p *OAuthTokenProvider) Token(ctx context.Context) (string, error) {
	if p.clientID == "" || p.clientSecret == "" {
		return "", ErrMissingCredentials
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" && p.nowFunc().Before(p.expiry.Add(-refreshBuffer)) {
		return p.token, nil
	}

	return p.refreshLocked(ctx)
}

func (p *OAuthTokenProvider) refreshLocked(ctx context.Context) (string, error) {
	// Drop the cached token up front so a refresh failure cannot leave a
	// credential state that looks valid.
	p.token = ""

	form := url.Values{
		"grant_type": {"client_credentials"},
		"scope":      {p.scope},
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		p.tokenURL,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return "", fmt.Errorf("creating token request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	creds := base64.StdEncoding.EncodeToString(
		[]byte(p.clientID + ":" + p.clientSecret),
	)
	req.Header.Set("Authorization", "Basic "+creds)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp tokenErrorResponse
		_ = json.Unmarshal(body, &errResp) //nolint:errcheck // best-effort error parsing
		return "", fmt.Errorf(
			"token request failed (status %d): %s - %s",
			resp.StatusCode,
			errResp.Error,
			errResp.ErrorDescription,
		)
	}

	var tokenResp tokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", fmt.Errorf("parsing token response: %w", err)
	}

	p.token = tokenResp.AccessToken
	p.expiry = p.nowFunc().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)
	metrics.EbayTokenRefreshesTotal.Inc()

	return p.token, nil
}
