// Package store defines the datastore abstraction for marketly. The
// server depends on the Store interface, never on concrete
// implementations, so handlers stay testable without a running
// database. The database itself is optional: saved searches are the
// only persisted entity.
package store

import (
	"context"
	"errors"

	domain "github.com/tgrenier/marketly/pkg/types"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store defines all data access operations for marketly.
type Store interface {
	// Saved searches
	CreateSavedSearch(ctx context.Context, s *domain.SavedSearch) error
	GetSavedSearch(ctx context.Context, id string) (*domain.SavedSearch, error)
	ListSavedSearches(ctx context.Context) ([]domain.SavedSearch, error)
	DeleteSavedSearch(ctx context.Context, id string) error

	// Migrations
	Migrate(ctx context.Context) error

	// Health
	Ping(ctx context.Context) error
}
