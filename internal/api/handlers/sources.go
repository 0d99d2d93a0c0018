package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domain "github.com/tgrenier/marketly/pkg/types"
)

// SourcesHandler reports which marketplaces the server can search.
type SourcesHandler struct {
	svc Searcher
}

// NewSourcesHandler creates a new SourcesHandler.
func NewSourcesHandler(svc Searcher) *SourcesHandler {
	return &SourcesHandler{svc: svc}
}

// SourcesOutput is the response body for the sources endpoint.
type SourcesOutput struct {
	Body struct {
		Sources []domain.Source `json:"sources" doc:"Available source names, sorted"`
	}
}

// List returns the registered sources.
func (h *SourcesHandler) List(_ context.Context, _ *struct{}) (*SourcesOutput, error) {
	out := &SourcesOutput{}
	out.Body.Sources = h.svc.Sources()
	return out, nil
}

// RegisterSourcesRoutes registers the sources endpoint with the Huma API.
func RegisterSourcesRoutes(api huma.API, h *SourcesHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-sources",
		Method:      http.MethodGet,
		Path:        "/api/v1/sources",
		Summary:     "List available sources",
		Tags:        []string{"search"},
	}, h.List)
}
