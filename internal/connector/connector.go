// Package connector defines the marketplace connector abstraction and
// the registry the orchestrator selects connectors from.
package connector

import (
	"context"
	"slices"

	domain "github.com/tgrenier/marketly/pkg/types"
)

// Connector queries exactly one upstream marketplace and returns
// normalized listings.
//
// Search never fails from the caller's point of view: transport errors,
// non-success statuses, parse failures, and missing credentials are all
// absorbed at the connector boundary and reported as an empty result
// (logged internally). Implementations honor limit as an upper bound
// and apply their own fixed request timeout.
type Connector interface {
	Source() domain.Source
	Search(ctx context.Context, query string, limit int) []domain.Listing
}

// Registry maps source identifiers to connectors. It is assembled once
// at startup and read-only afterwards.
type Registry struct {
	connectors map[domain.Source]Connector
}

// NewRegistry builds a registry from the given connectors. A later
// connector with a duplicate source replaces the earlier one.
func NewRegistry(connectors ...Connector) *Registry {
	m := make(map[domain.Source]Connector, len(connectors))
	for _, c := range connectors {
		m[c.Source()] = c
	}
	return &Registry{connectors: m}
}

// Get returns the connector for source, if registered.
func (r *Registry) Get(source domain.Source) (Connector, bool) {
	c, ok := r.connectors[source]
	return c, ok
}

// Has reports whether source is registered.
func (r *Registry) Has(source domain.Source) bool {
	_, ok := r.connectors[source]
	return ok
}

// Sources returns all registered source identifiers, sorted.
func (r *Registry) Sources() []domain.Source {
	out := make([]domain.Source, 0, len(r.connectors))
	for s := range r.connectors {
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}
