package client

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	domain "github.com/tgrenier/marketly/pkg/types"
)

// SearchResult is the payload returned by the search endpoints.
type SearchResult struct {
	Query   string           `json:"query"`
	Sources []domain.Source  `json:"sources"`
	Count   int              `json:"count"`
	Results []domain.Listing `json:"results"`
}

// Search runs a unified search. Empty sources means every source the
// server knows; limit 0 means the server default.
func (c *Client) Search(ctx context.Context, query string, sources []domain.Source, limit int) (*SearchResult, error) {
	params := url.Values{}
	params.Set("q", query)
	if len(sources) > 0 {
		names := make([]string, len(sources))
		for i, s := range sources {
			names[i] = string(s)
		}
		params.Set("sources", strings.Join(names, ","))
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var out SearchResult
	if err := c.get(ctx, "/api/v1/search?"+params.Encode(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Sources returns the source names the server can search.
func (c *Client) Sources(ctx context.Context) ([]domain.Source, error) {
	var out struct {
		Sources []domain.Source `json:"sources"`
	}
	if err := c.get(ctx, "/api/v1/sources", &out); err != nil {
		return nil, err
	}
	return out.Sources, nil
}
