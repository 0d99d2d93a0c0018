package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/tgrenier/marketly/pkg/types"
)

func TestClient_ConnectionRefused(t *testing.T) {
	t.Parallel()

	c := New("http://127.0.0.1:1") // nothing listening
	_, err := c.Sources(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API server not running")
}

func TestClient_HTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Sources(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API error (HTTP 500)")
}

func TestClient_Search(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/search", r.URL.Path)
		assert.Equal(t, "iphone 12", r.URL.Query().Get("q"))
		assert.Equal(t, "ebay,kijiji", r.URL.Query().Get("sources"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(SearchResult{
			Query:   "iphone 12",
			Sources: []domain.Source{domain.SourceEbay, domain.SourceKijiji},
			Count:   1,
			Results: []domain.Listing{{
				Source:          domain.SourceEbay,
				SourceListingID: "e1",
				Title:           "iPhone 12",
				URL:             "https://example.com/e1",
				Score:           5.5,
			}},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	result, err := c.Search(context.Background(), "iphone 12",
		[]domain.Source{domain.SourceEbay, domain.SourceKijiji}, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Count)
	require.Len(t, result.Results, 1)
	assert.Equal(t, "iPhone 12", result.Results[0].Title)
}

func TestClient_Sources(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/sources", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sources":["ebay","kijiji"]}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	sources, err := c.Sources(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Source{domain.SourceEbay, domain.SourceKijiji}, sources)
}

func TestClient_SavedSearchLifecycle(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/saved-searches", func(w http.ResponseWriter, r *http.Request) {
		var req savedSearchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "canoe", req.Query)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(domain.SavedSearch{
			ID:      "s1",
			Query:   req.Query,
			Sources: []domain.Source{domain.SourceKijiji},
		})
	})
	mux.HandleFunc("DELETE /api/v1/saved-searches/s1", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(srv.URL)

	created, err := c.CreateSavedSearch(context.Background(), "canoe",
		[]domain.Source{domain.SourceKijiji})
	require.NoError(t, err)
	assert.Equal(t, "s1", created.ID)

	require.NoError(t, c.DeleteSavedSearch(context.Background(), "s1"))
}
