package client

import (
	"context"
	"strconv"

	domain "github.com/tgrenier/marketly/pkg/types"
)

// savedSearchRequest contains only the fields the API accepts on create.
type savedSearchRequest struct {
	Query   string   `json:"query"`
	Sources []string `json:"sources,omitempty"`
}

// CreateSavedSearch stores a new saved search on the server.
func (c *Client) CreateSavedSearch(ctx context.Context, query string, sources []domain.Source) (*domain.SavedSearch, error) {
	req := savedSearchRequest{Query: query}
	for _, s := range sources {
		req.Sources = append(req.Sources, string(s))
	}

	var created domain.SavedSearch
	if err := c.post(ctx, "/api/v1/saved-searches", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ListSavedSearches returns all saved searches, newest first.
func (c *Client) ListSavedSearches(ctx context.Context) ([]domain.SavedSearch, error) {
	var out struct {
		SavedSearches []domain.SavedSearch `json:"saved_searches"`
	}
	if err := c.get(ctx, "/api/v1/saved-searches", &out); err != nil {
		return nil, err
	}
	return out.SavedSearches, nil
}

// GetSavedSearch returns a single saved search by id.
func (c *Client) GetSavedSearch(ctx context.Context, id string) (*domain.SavedSearch, error) {
	var out domain.SavedSearch
	if err := c.get(ctx, "/api/v1/saved-searches/"+id, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteSavedSearch removes a saved search by id.
func (c *Client) DeleteSavedSearch(ctx context.Context, id string) error {
	return c.del(ctx, "/api/v1/saved-searches/"+id, nil)
}

// RunSavedSearch executes a saved search and returns fresh results.
func (c *Client) RunSavedSearch(ctx context.Context, id string, limit int) (*SearchResult, error) {
	path := "/api/v1/saved-searches/" + id + "/run"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	var out SearchResult
	if err := c.post(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
