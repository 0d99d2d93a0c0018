package kijiji

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Fetcher retrieves the raw document at url. It is the connector's only
// seam to the network, which keeps the parsing layer testable against
// canned documents.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// HTTPFetcher fetches documents over HTTP with a browser-like identity.
// Kijiji serves an instant block page to obvious bot user agents.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

// FetcherOption configures the HTTPFetcher.
type FetcherOption func(*HTTPFetcher)

// WithFetchTimeout overrides the default 15s request timeout.
func WithFetchTimeout(d time.Duration) FetcherOption {
	return func(f *HTTPFetcher) {
		f.client.Timeout = d
	}
}

// WithUserAgent overrides the default user agent.
func WithUserAgent(ua string) FetcherOption {
	return func(f *HTTPFetcher) {
		f.userAgent = ua
	}
}

// NewHTTPFetcher creates an HTTPFetcher.
func NewHTTPFetcher(opts ...FetcherOption) *HTTPFetcher {
	f := &HTTPFetcher{
		client:    &http.Client{Timeout: 15 * time.Second},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves url, following redirects, and returns the body for
// any 2xx response.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept-Language", "en-CA,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return body, nil
}
