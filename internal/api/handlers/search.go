package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	domain "github.com/tgrenier/marketly/pkg/types"
)

// Searcher is the slice of the search service the handlers need.
type Searcher interface {
	Search(ctx context.Context, query string, sources []domain.Source, limit int) []domain.Listing
	Sources() []domain.Source
}

// SearchHandler handles unified search requests.
type SearchHandler struct {
	svc Searcher
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(svc Searcher) *SearchHandler {
	return &SearchHandler{svc: svc}
}

// SearchInput is the query-parameter input for the search endpoint.
type SearchInput struct {
	Query   string `query:"q" minLength:"1" required:"true" doc:"Free-text search query" example:"iphone 12"`
	Sources string `query:"sources,omitempty" doc:"Comma-separated source names; empty means all" example:"ebay,kijiji"`
	Limit   int    `query:"limit,omitempty" minimum:"1" maximum:"50" doc:"Maximum results to return (default 20)" example:"20"`
}

// SearchOutput is the response body for the search endpoint.
type SearchOutput struct {
	Body struct {
		Query   string           `json:"query" doc:"The query as searched"`
		Sources []domain.Source  `json:"sources" doc:"Sources that were searched"`
		Count   int              `json:"count" doc:"Number of results returned"`
		Results []domain.Listing `json:"results" doc:"Ranked listings, best match first"`
	}
}

// Search runs a unified search across the requested marketplaces.
func (h *SearchHandler) Search(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	sources, err := h.resolveSources(input.Sources)
	if err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	results := h.svc.Search(ctx, input.Query, sources, limit)
	if results == nil {
		results = []domain.Listing{}
	}

	out := &SearchOutput{}
	out.Body.Query = input.Query
	out.Body.Sources = sources
	out.Body.Count = len(results)
	out.Body.Results = results
	return out, nil
}

const defaultSearchLimit = 20

// resolveSources parses the comma-separated sources parameter and
// rejects names with no registered connector. Empty input selects every
// registered source.
func (h *SearchHandler) resolveSources(raw string) ([]domain.Source, error) {
	if strings.TrimSpace(raw) == "" {
		return h.svc.Sources(), nil
	}

	known := make(map[domain.Source]struct{})
	for _, s := range h.svc.Sources() {
		known[s] = struct{}{}
	}

	var out []domain.Source
	for _, name := range strings.Split(raw, ",") {
		name = strings.TrimSpace(strings.ToLower(name))
		if name == "" {
			continue
		}
		src := domain.Source(name)
		if _, ok := known[src]; !ok {
			return nil, huma.Error400BadRequest("unknown source: " + name)
		}
		out = append(out, src)
	}
	if len(out) == 0 {
		return h.svc.Sources(), nil
	}
	return out, nil
}

// RegisterSearchRoutes registers search endpoints with the Huma API.
func RegisterSearchRoutes(api huma.API, h *SearchHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "unified-search",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search marketplaces",
		Description: "Searches the requested marketplaces concurrently and returns listings ranked by relevance.",
		Tags:        []string{"search"},
		Errors:      []int{http.StatusBadRequest},
	}, h.Search)
}
