package http

import (
	"context"
	"net/http"
	"time"

	"fuelwatch/internal/models"
)

// StatusStore is the subset of store operations the status endpoint needs.
type StatusStore interface {
	Ping() error
	TotalObservations(ctx context.Context) (int64, error)
}

// StatusHandler handles the /status endpoint.
type StatusHandler struct {
	store     StatusStore
	startTime time.Time
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(store StatusStore) *StatusHandler {
	return &StatusHandler{
		store:     store,
		startTime: time.Now(),
	}
}

// ServeHTTP implements the http.Handler interface.
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response := models.StatusResponse{
		Status:        "healthy",
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Database:      h.getDatabaseStatus(r.Context()),
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *StatusHandler) getDatabaseStatus(ctx context.Context) models.DatabaseStatus {
	status := models.DatabaseStatus{
		Connected: false,
	}

	if h.store == nil {
		return status
	}

	if err := h.store.Ping(); err != nil {
		return status
	}
	status.Connected = true

	if count, err := h.store.TotalObservations(ctx); err == nil {
		status.TotalPricesStored = count
	}

	return status
}
