// Package ebay implements the API-backed marketplace connector on top
// of the eBay Browse API, abstracted behind interfaces for testability.
package ebay

import (
	"context"
)

// SearchRequest defines the parameters for a Browse API search.
type SearchRequest struct {
	Query  string
	Limit  int
	Offset int
}

// SearchResponse holds the raw results of a Browse API search.
type SearchResponse struct {
	Items  []ItemSummary
	Total  int
	Offset int
	Limit  int
}

// Client defines the interface for the eBay Browse API.
type Client interface {
	Search(ctx context.Context, req SearchRequest) (*SearchResponse, error)
}

// TokenProvider defines the interface for obtaining OAuth2 tokens.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}
