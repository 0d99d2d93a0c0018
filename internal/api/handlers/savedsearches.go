package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/tgrenier/marketly/internal/store"
	domain "github.com/tgrenier/marketly/pkg/types"
)

// SavedSearchHandler handles saved search CRUD and re-runs. It is only
// registered when the server has a database.
type SavedSearchHandler struct {
	store store.Store
	svc   Searcher
}

// NewSavedSearchHandler creates a new SavedSearchHandler.
func NewSavedSearchHandler(s store.Store, svc Searcher) *SavedSearchHandler {
	return &SavedSearchHandler{store: s, svc: svc}
}

// CreateSavedSearchInput is the request body for creating a saved search.
type CreateSavedSearchInput struct {
	Body struct {
		Query   string   `json:"query" minLength:"1" doc:"Free-text search query" example:"iphone 12"`
		Sources []string `json:"sources,omitempty" doc:"Source names; empty means all" example:"[\"ebay\",\"kijiji\"]"`
	}
}

// SavedSearchOutput wraps a single saved search.
type SavedSearchOutput struct {
	Body domain.SavedSearch
}

// SavedSearchListOutput wraps the saved search collection.
type SavedSearchListOutput struct {
	Body struct {
		SavedSearches []domain.SavedSearch `json:"saved_searches"`
	}
}

// SavedSearchIDInput selects a saved search by path id.
type SavedSearchIDInput struct {
	ID string `path:"id" doc:"Saved search UUID"`
}

// RunSavedSearchInput selects a saved search to execute.
type RunSavedSearchInput struct {
	ID    string `path:"id" doc:"Saved search UUID"`
	Limit int    `query:"limit,omitempty" minimum:"1" maximum:"50" doc:"Maximum results to return (default 20)"`
}

// Create stores a new saved search.
func (h *SavedSearchHandler) Create(ctx context.Context, input *CreateSavedSearchInput) (*SavedSearchOutput, error) {
	known := make(map[domain.Source]struct{})
	for _, s := range h.svc.Sources() {
		known[s] = struct{}{}
	}

	sources := make([]domain.Source, 0, len(input.Body.Sources))
	for _, name := range input.Body.Sources {
		src := domain.Source(name)
		if _, ok := known[src]; !ok {
			return nil, huma.Error400BadRequest("unknown source: " + name)
		}
		sources = append(sources, src)
	}
	if len(sources) == 0 {
		sources = h.svc.Sources()
	}

	saved := &domain.SavedSearch{
		Query:   input.Body.Query,
		Sources: sources,
	}
	if err := h.store.CreateSavedSearch(ctx, saved); err != nil {
		return nil, huma.Error500InternalServerError("creating saved search: " + err.Error())
	}

	return &SavedSearchOutput{Body: *saved}, nil
}

// List returns all saved searches, newest first.
func (h *SavedSearchHandler) List(ctx context.Context, _ *struct{}) (*SavedSearchListOutput, error) {
	saved, err := h.store.ListSavedSearches(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing saved searches: " + err.Error())
	}
	if saved == nil {
		saved = []domain.SavedSearch{}
	}

	out := &SavedSearchListOutput{}
	out.Body.SavedSearches = saved
	return out, nil
}

// invalidID reports whether id cannot be a saved search primary key.
// Rejecting it up front keeps malformed ids from surfacing as database
// type errors.
func invalidID(id string) bool {
	_, err := uuid.Parse(id)
	return err != nil
}

// Get returns a single saved search.
func (h *SavedSearchHandler) Get(ctx context.Context, input *SavedSearchIDInput) (*SavedSearchOutput, error) {
	if invalidID(input.ID) {
		return nil, huma.Error404NotFound("saved search not found")
	}
	saved, err := h.store.GetSavedSearch(ctx, input.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, huma.Error404NotFound("saved search not found")
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("getting saved search: " + err.Error())
	}
	return &SavedSearchOutput{Body: *saved}, nil
}

// Delete removes a saved search.
func (h *SavedSearchHandler) Delete(ctx context.Context, input *SavedSearchIDInput) (*struct{}, error) {
	if invalidID(input.ID) {
		return nil, huma.Error404NotFound("saved search not found")
	}
	err := h.store.DeleteSavedSearch(ctx, input.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, huma.Error404NotFound("saved search not found")
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("deleting saved search: " + err.Error())
	}
	return nil, nil
}

// Run executes a saved search and returns fresh ranked results.
func (h *SavedSearchHandler) Run(ctx context.Context, input *RunSavedSearchInput) (*SearchOutput, error) {
	if invalidID(input.ID) {
		return nil, huma.Error404NotFound("saved search not found")
	}
	saved, err := h.store.GetSavedSearch(ctx, input.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, huma.Error404NotFound("saved search not found")
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("getting saved search: " + err.Error())
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	results := h.svc.Search(ctx, saved.Query, saved.Sources, limit)
	if results == nil {
		results = []domain.Listing{}
	}

	out := &SearchOutput{}
	out.Body.Query = saved.Query
	out.Body.Sources = saved.Sources
	out.Body.Count = len(results)
	out.Body.Results = results
	return out, nil
}

// RegisterSavedSearchRoutes registers saved search endpoints with the
// Huma API.
func RegisterSavedSearchRoutes(api huma.API, h *SavedSearchHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-saved-search",
		Method:        http.MethodPost,
		Path:          "/api/v1/saved-searches",
		Summary:       "Create a saved search",
		Tags:          []string{"saved-searches"},
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest},
	}, h.Create)

	huma.Register(api, huma.Operation{
		OperationID: "list-saved-searches",
		Method:      http.MethodGet,
		Path:        "/api/v1/saved-searches",
		Summary:     "List saved searches",
		Tags:        []string{"saved-searches"},
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID: "get-saved-search",
		Method:      http.MethodGet,
		Path:        "/api/v1/saved-searches/{id}",
		Summary:     "Get a saved search",
		Tags:        []string{"saved-searches"},
		Errors:      []int{http.StatusNotFound},
	}, h.Get)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-saved-search",
		Method:        http.MethodDelete,
		Path:          "/api/v1/saved-searches/{id}",
		Summary:       "Delete a saved search",
		Tags:          []string{"saved-searches"},
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusNotFound},
	}, h.Delete)

	huma.Register(api, huma.Operation{
		OperationID: "run-saved-search",
		Method:      http.MethodPost,
		Path:        "/api/v1/saved-searches/{id}/run",
		Summary:     "Run a saved search",
		Description: "Executes the saved query against its sources and returns ranked results.",
		Tags:        []string{"saved-searches"},
		Errors:      []int{http.StatusNotFound},
	}, h.Run)
}
