package ebay

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/tgrenier/marketly/internal/metrics"
	"github.com/tgrenier/marketly/pkg/logger"
	domain "github.com/tgrenier/marketly/pkg/types"
)

// Connector adapts the Browse API client to the marketplace connector
// contract. Every failure of the underlying client, including missing
// credentials, is absorbed here and reported as an empty result so one
// bad source can never abort a fan-out.
type Connector struct {
	client Client
	log    *slog.Logger
}

// ConnectorOption configures the Connector.
type ConnectorOption func(*Connector)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) ConnectorOption {
	return func(c *Connector) {
		c.log = l
	}
}

// NewConnector wraps a Browse API client as a connector.
func NewConnector(client Client, opts ...ConnectorOption) *Connector {
	c := &Connector{
		client: client,
		log:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Source identifies the connector as the eBay source.
func (*Connector) Source() domain.Source {
	return domain.SourceEbay
}

// Search queries the Browse API and normalizes the results, degrading
// to an empty slice on any upstream failure.
func (c *Connector) Search(ctx context.Context, query string, limit int) []domain.Listing {
	start := time.Now()
	defer func() {
		metrics.ConnectorSearchDuration.
			WithLabelValues(string(domain.SourceEbay)).
			Observe(time.Since(start).Seconds())
	}()

	if limit <= 0 {
		return nil
	}

	resp, err := c.client.Search(ctx, SearchRequest{Query: query, Limit: limit})
	if err != nil {
		reason := "transport"
		switch {
		case errors.Is(err, ErrMissingCredentials):
			reason = "credentials"
		case errors.Is(err, ErrDailyLimitReached):
			reason = "daily_limit"
		}
		metrics.ConnectorFailuresTotal.
			WithLabelValues(string(domain.SourceEbay), reason).
			Inc()
		c.log.Warn("ebay search degraded to empty results",
			"query", query,
			"error", err,
		)
		return nil
	}

	listings := ToListings(resp.Items)
	if len(listings) > limit {
		listings = listings[:limit]
	}

	metrics.ConnectorListingsTotal.
		WithLabelValues(string(domain.SourceEbay)).
		Add(float64(len(listings)))

	return listings
}
