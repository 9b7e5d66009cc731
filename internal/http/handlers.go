package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"fuelwatch/internal/ingest"
	"fuelwatch/internal/models"
	"fuelwatch/internal/report"
)

// Ingestor runs one ingestion over all configured providers.
type Ingestor interface {
	Run(ctx context.Context) (*ingest.BatchResult, error)
}

// PriceReader reads back stored report rows.
type PriceReader interface {
	QueryDay(ctx context.Context, day time.Time, whitelist []string) ([]models.ReportRow, error)
}

// Dispatcher delivers the rendered report text.
type Dispatcher interface {
	Send(ctx context.Context, text string) error
}

// ScrapeHandler triggers an ingestion run over all configured providers.
type ScrapeHandler struct {
	pipeline Ingestor
	logger   zerolog.Logger
}

// NewScrapeHandler creates a new ScrapeHandler.
func NewScrapeHandler(pipeline Ingestor, logger zerolog.Logger) *ScrapeHandler {
	return &ScrapeHandler{
		pipeline: pipeline,
		logger:   logger.With().Str("handler", "scrape").Logger(),
	}
}

// ServeHTTP implements the http.Handler interface. A fatal run error maps to
// 500; a run where every provider conflicted maps to 409; everything else is
// a 200 with per-provider detail.
func (h *ScrapeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	result, err := h.pipeline.Run(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("ingestion run failed")
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Status:  http.StatusInternalServerError,
			Message: err.Error(),
		})
		return
	}

	status := http.StatusOK
	message := "Fuel prices scraped!"
	if result.AllConflicted() {
		status = http.StatusConflict
		message = "Fuel prices for today already exist."
	}

	resp := models.ScrapeResponse{
		Status:  status,
		Message: message,
		Date:    result.Date.Format("2006-01-02"),
	}
	for _, res := range result.Results {
		outcome := models.ProviderOutcome{
			Provider:    res.Provider,
			Outcome:     string(res.Outcome),
			RowsWritten: res.RowsWritten,
		}
		if res.Err != nil {
			outcome.Error = res.Err.Error()
		}
		resp.Providers = append(resp.Providers, outcome)
	}

	writeJSON(w, status, resp)
}

// AlertHandler composes today's price report and sends it to the chat.
type AlertHandler struct {
	store      PriceReader
	dispatcher Dispatcher
	whitelist  []string
	metrics    *Metrics
	logger     zerolog.Logger
}

// NewAlertHandler creates a new AlertHandler.
func NewAlertHandler(store PriceReader, dispatcher Dispatcher, whitelist []string, metrics *Metrics, logger zerolog.Logger) *AlertHandler {
	return &AlertHandler{
		store:      store,
		dispatcher: dispatcher,
		whitelist:  whitelist,
		metrics:    metrics,
		logger:     logger.With().Str("handler", "alert").Logger(),
	}
}

// ServeHTTP implements the http.Handler interface.
func (h *AlertHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.QueryDay(r.Context(), time.Now(), h.whitelist)
	if err != nil {
		h.logger.Error().Err(err).Msg("querying today's prices failed")
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Status:  http.StatusInternalServerError,
			Message: err.Error(),
		})
		return
	}

	text := report.Format(rows)

	if err := h.dispatcher.Send(r.Context(), text); err != nil {
		if h.metrics != nil {
			h.metrics.RecordAlert("error")
		}
		h.logger.Error().Err(err).Msg("alert dispatch failed")
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Status:  http.StatusInternalServerError,
			Message: err.Error(),
		})
		return
	}
	if h.metrics != nil {
		h.metrics.RecordAlert("success")
	}

	writeJSON(w, http.StatusOK, models.SuccessResponse{
		Status:  http.StatusOK,
		Message: "Fuel price alert sent!",
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
