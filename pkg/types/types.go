// Package domain defines the core business types shared by every
// marketplace connector and the unified search orchestrator.
package domain

import "time"

// Source identifies an upstream marketplace.
type Source string

// Known marketplace sources.
const (
	SourceEbay   Source = "ebay"
	SourceKijiji Source = "kijiji"
)

// Money is a non-negative amount in a 3-letter ISO currency.
type Money struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// Listing is a normalized marketplace listing. Connectors construct
// listings, the scorer writes Score and ScoreReason, and nothing else
// mutates them. Listings are never persisted.
type Listing struct {
	Source          Source   `json:"source"`
	SourceListingID string   `json:"source_listing_id"`
	Title           string   `json:"title"`
	Price           *Money   `json:"price,omitempty"`
	URL             string   `json:"url"`
	ImageURLs       []string `json:"image_urls"`
	Location        string   `json:"location,omitempty"`
	Condition       string   `json:"condition,omitempty"`
	Snippet         string   `json:"snippet,omitempty"`

	// Relevance, written by the scorer. ScoreReason is a comma-joined
	// list of the contributing signals, exposed for observability only.
	Score       float64 `json:"score"`
	ScoreReason string  `json:"score_reason,omitempty"`
}

// HasPrice reports whether the listing carries a usable price.
func (l *Listing) HasPrice() bool {
	return l.Price != nil
}

// SavedSearch is a stored query that can be re-run live on demand.
// Search results are never stored alongside it.
type SavedSearch struct {
	ID        string    `json:"id"         db:"id"`
	Query     string    `json:"query"      db:"query"`
	Sources   []Source  `json:"sources"    db:"sources"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
