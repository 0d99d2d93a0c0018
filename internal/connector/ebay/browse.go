package ebay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tgrenier/marketly/internal/metrics"
)

const (
	defaultBrowseURL   = "https://api.ebay.com/buy/browse/v1/item_summary/search"
	defaultMarketplace = "EBAY_CA"
	defaultTimeout     = 20 * time.Second
)

// BrowseClient implements Client against the eBay Browse API.
type BrowseClient struct {
	tokens      TokenProvider
	browseURL   string
	marketplace string
	client      *http.Client
	limiter     *RateLimiter
}

// BrowseOption configures the BrowseClient.
type BrowseOption func(*BrowseClient)

// WithBrowseURL overrides the default Browse API endpoint.
func WithBrowseURL(u string) BrowseOption {
	return func(c *BrowseClient) {
		c.browseURL = u
	}
}

// WithMarketplace overrides the default marketplace.
func WithMarketplace(m string) BrowseOption {
	return func(c *BrowseClient) {
		c.marketplace = m
	}
}

// WithBrowseHTTPClient overrides the default HTTP client.
func WithBrowseHTTPClient(hc *http.Client) BrowseOption {
	return func(c *BrowseClient) {
		c.client = hc
	}
}

// WithRateLimiter injects a limiter applied before every Browse API
// call, covering both the per-second rate and the daily call budget.
func WithRateLimiter(l *RateLimiter) BrowseOption {
	return func(c *BrowseClient) {
		c.limiter = l
	}
}

// NewBrowseClient creates a Browse API client.
func NewBrowseClient(tokens TokenProvider, opts ...BrowseOption) *BrowseClient {
	c := &BrowseClient{
		tokens:      tokens,
		browseURL:   defaultBrowseURL,
		marketplace: defaultMarketplace,
		client:      &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type browseAPIResponse struct {
	ItemSummaries []ItemSummary `json:"itemSummaries"`
	Total         int           `json:"total"`
	Offset        int           `json:"offset"`
	Limit         int           `json:"limit"`
}

// Search implements Client.Search by querying the Browse API.
func (c *BrowseClient) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting auth token: %w", err)
	}

	metrics.EbayAPICallsTotal.Inc()

	httpReq, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.buildSearchURL(req), http.NoBody,
	)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("X-EBAY-C-MARKETPLACE-ID", c.marketplace)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("executing search request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(
			"eBay API error (status %d): %s",
			resp.StatusCode,
			string(body),
		)
	}

	var apiResp browseAPIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}

	return &SearchResponse{
		Items:  apiResp.ItemSummaries,
		Total:  apiResp.Total,
		Offset: apiResp.Offset,
		Limit:  apiResp.Limit,
	}, nil
}

func (c *BrowseClient) buildSearchURL(req SearchRequest) string {
	params := url.Values{}
	params.Set("q", req.Query)

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	params.Set("limit", strconv.Itoa(limit))

	if req.Offset > 0 {
		params.Set("offset", strconv.Itoa(req.Offset))
	}

	return c.browseURL + "?" + params.Encode()
}
