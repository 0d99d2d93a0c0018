// Package handlers implements HTTP handlers for the marketly API.
package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tgrenier/marketly/internal/store"
)

// StatusResponse is the body of the health and readiness endpoints.
type StatusResponse struct {
	Status   string `json:"status" example:"ok"`
	Database string `json:"database,omitempty" example:"disabled"`
}

// HealthHandler provides health and readiness endpoints. The store is
// optional: a nil store means the server runs without persistence and
// readiness degenerates to liveness.
type HealthHandler struct {
	store store.Store
}

// NewHealthHandler creates a new HealthHandler. Pass nil when the
// server runs without a database.
func NewHealthHandler(s store.Store) *HealthHandler {
	return &HealthHandler{store: s}
}

// Healthz returns 200 if the process is running.
func (*HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, StatusResponse{Status: "ok"})
}

// Readyz returns 200 if the database is reachable (or not configured),
// 503 otherwise.
func (h *HealthHandler) Readyz(c echo.Context) error {
	if h.store == nil {
		return c.JSON(http.StatusOK, StatusResponse{
			Status:   "ready",
			Database: "disabled",
		})
	}
	if err := h.store.Ping(c.Request().Context()); err != nil {
		return c.JSON(
			http.StatusServiceUnavailable,
			StatusResponse{Status: "unavailable"},
		)
	}
	return c.JSON(http.StatusOK, StatusResponse{Status: "ready"})
}
