// Package kijiji implements the scrape-backed marketplace connector
// for Kijiji classifieds.
//
// The primary extraction strategy reads the JSON-LD ItemList embedded
// in search result pages: structured data is far lower-variance than
// the visual markup. A legacy anchor-heuristic scraper remains
// available behind a config flag for pages that stop embedding it.
package kijiji

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/tgrenier/marketly/internal/metrics"
	"github.com/tgrenier/marketly/pkg/logger"
	score "github.com/tgrenier/marketly/pkg/scorer"
	domain "github.com/tgrenier/marketly/pkg/types"
)

const (
	defaultBaseURL  = "https://www.kijiji.ca"
	defaultRegion   = "canada"
	defaultCurrency = "CAD"
)

// Connector searches Kijiji by scraping its search result pages. Every
// fetch or parse failure is absorbed into an empty result; malformed
// individual items are dropped, not fatal.
type Connector struct {
	fetcher     Fetcher
	baseURL     string
	region      string
	useFallback bool
	log         *slog.Logger
}

// Option configures the Connector.
type Option func(*Connector)

// WithBaseURL overrides the default site root.
func WithBaseURL(u string) Option {
	return func(c *Connector) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithRegion sets the region path segment of the search URL.
func WithRegion(r string) Option {
	return func(c *Connector) {
		c.region = r
	}
}

// WithFallbackScraper switches extraction to the legacy anchor
// heuristics instead of JSON-LD. Exactly one strategy runs per call.
func WithFallbackScraper(enabled bool) Option {
	return func(c *Connector) {
		c.useFallback = enabled
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Connector) {
		c.log = l
	}
}

// NewConnector creates a Kijiji connector using the given fetcher.
func NewConnector(fetcher Fetcher, opts ...Option) *Connector {
	c := &Connector{
		fetcher: fetcher,
		baseURL: defaultBaseURL,
		region:  defaultRegion,
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Source identifies the connector as the Kijiji source.
func (*Connector) Source() domain.Source {
	return domain.SourceKijiji
}

// Search fetches one search result page and extracts normalized
// listings. Candidates sharing no tokens with the query are excluded
// at the source; everything else is penalized by the scorer later, not
// here.
func (c *Connector) Search(ctx context.Context, query string, limit int) []domain.Listing {
	start := time.Now()
	defer func() {
		metrics.ConnectorSearchDuration.
			WithLabelValues(string(domain.SourceKijiji)).
			Observe(time.Since(start).Seconds())
	}()

	if limit <= 0 {
		return nil
	}

	searchURL := c.buildSearchURL(query)

	html, err := c.fetcher.Fetch(ctx, searchURL)
	if err != nil {
		metrics.ConnectorFailuresTotal.
			WithLabelValues(string(domain.SourceKijiji), "transport").
			Inc()
		c.log.Warn("kijiji search degraded to empty results",
			"query", query,
			"url", searchURL,
			"error", err,
		)
		return nil
	}

	var items []ldItem
	if c.useFallback {
		items, err = parseFallbackItems(html)
	} else {
		items, err = parseJSONLDItems(html)
	}
	if err != nil {
		metrics.ConnectorFailuresTotal.
			WithLabelValues(string(domain.SourceKijiji), "parse").
			Inc()
		c.log.Warn("kijiji page unparsable", "query", query, "error", err)
		return nil
	}

	queryTokens := score.Tokenize(query)

	listings := make([]domain.Listing, 0, limit)
	for _, it := range items {
		if len(listings) >= limit {
			break
		}

		title := strings.TrimSpace(it.Name)
		if title == "" || it.URL == "" {
			continue
		}
		if !tokenOverlap(queryTokens, title) {
			continue
		}

		listingURL := c.absoluteURL(it.URL)

		l := domain.Listing{
			Source:          domain.SourceKijiji,
			SourceListingID: extractListingID(listingURL),
			Title:           title,
			URL:             listingURL,
			ImageURLs:       it.Images,
			Snippet:         it.Description,
		}
		if it.Price != nil {
			currency := it.Currency
			if currency == "" {
				currency = defaultCurrency
			}
			l.Price = &domain.Money{Amount: *it.Price, Currency: currency}
		}

		listings = append(listings, l)
	}

	metrics.ConnectorListingsTotal.
		WithLabelValues(string(domain.SourceKijiji)).
		Add(float64(len(listings)))

	return listings
}

func (c *Connector) buildSearchURL(query string) string {
	return c.baseURL + "/b-buy-sell/" + c.region + "/c10l0?query=" + url.QueryEscape(query)
}

func (c *Connector) absoluteURL(u string) string {
	if strings.HasPrefix(u, "/") {
		return c.baseURL + u
	}
	return u
}

// extractListingID returns the last all-digit path segment, which is
// where Kijiji embeds the ad id. When the URL carries none, the URL
// itself is the identity.
func extractListingID(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	parts := strings.Split(parsed.Path, "/")
	for i := len(parts) - 1; i >= 0; i-- {
		if p := parts[i]; p != "" && isDigits(p) {
			return p
		}
	}
	return rawURL
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// tokenOverlap reports whether the title shares at least one token
// with the query. An empty query never filters.
func tokenOverlap(queryTokens []string, title string) bool {
	if len(queryTokens) == 0 {
		return true
	}
	titleTokens := score.Tokenize(title)
	for _, q := range queryTokens {
		for _, t := range titleTokens {
			if q == t {
				return true
			}
		}
	}
	return false
}
