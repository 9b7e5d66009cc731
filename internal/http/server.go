package http

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"fuelwatch/internal/models"
)

// Store combines the store operations the HTTP surface depends on.
type Store interface {
	PriceReader
	StatusStore
}

// Server represents the HTTP server exposing the trigger, metrics and status endpoints.
type Server struct {
	server  *http.Server
	logger  zerolog.Logger
	metrics *Metrics
}

// NewServer creates a new HTTP server. Each server carries its own metrics
// registry so the /metrics endpoint only exposes this process' series.
func NewServer(addr string, pipeline Ingestor, store Store, dispatcher Dispatcher, whitelist []string, logger zerolog.Logger) *Server {
	mux := http.NewServeMux()
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)

	// Register handlers
	mux.Handle("/api/scrape/fuel", NewScrapeHandler(pipeline, logger))
	mux.Handle("/api/alert/fuel", NewAlertHandler(store, dispatcher, whitelist, metrics, logger))
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.Handle("/status", NewStatusHandler(store))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			panic(err)
		}
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, http.StatusOK, models.SuccessResponse{
			Status:  http.StatusOK,
			Message: "Fuel price scraper is running!",
		})
	})

	return &Server{
		server: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger:  logger.With().Str("component", "http").Logger(),
		metrics: metrics,
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("starting HTTP server")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// Metrics returns the Prometheus metrics.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}
