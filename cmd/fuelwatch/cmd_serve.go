package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"fuelwatch/internal/alert"
	"fuelwatch/internal/database"
	"fuelwatch/internal/fetch"
	"fuelwatch/internal/http"
	"fuelwatch/internal/ingest"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP service",
		Long: `Starts the HTTP service exposing the scrape and alert triggers together
with /metrics, /status and /health endpoints.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogger()

			if cfg.PostgresDSN == "" {
				return fmt.Errorf("--postgres-dsn is required")
			}

			providerNames := make([]string, 0, len(cfg.Providers))
			for _, p := range cfg.Providers {
				providerNames = append(providerNames, p.Name)
			}

			logger.Info().
				Str("version", Version).
				Str("commit", Commit).
				Str("buildDate", BuildDate).
				Str("httpAddr", cfg.HTTPAddr).
				Bool("useFixture", cfg.UseFixture).
				Strs("providers", providerNames).
				Msg("starting fuel price scraper")

			// Connect to database
			db, err := database.New(cfg.PostgresDSN, logger)
			if err != nil {
				return fmt.Errorf("connecting to database: %w", err)
			}
			defer db.Close()

			// Create the pipeline and its collaborators
			fetcher := fetch.New(cfg.PageURL, cfg.FixturePath, cfg.UseFixture, logger)
			pipeline := ingest.New(db, fetcher, cfg.Providers, logger)
			dispatcher := alert.New(cfg.TelegramToken, cfg.TelegramChatID, logger)

			// Create HTTP server
			httpServer := http.NewServer(cfg.HTTPAddr, pipeline, db, dispatcher, cfg.FuelTypeWhitelist, logger)

			// Wire Prometheus metrics to the pipeline
			pipeline.SetMetrics(httpServer.Metrics())

			// Setup signal handling
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			// Start HTTP server in goroutine
			go func() {
				if err := httpServer.Start(); err != nil {
					logger.Error().Err(err).Msg("HTTP server error")
					cancel()
				}
			}()

			// Wait for signal
			select {
			case sig := <-sigCh:
				logger.Info().Str("signal", sig.String()).Msg("received signal, shutting down")
			case <-ctx.Done():
			}

			// Graceful shutdown
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer shutdownCancel()

			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("HTTP server shutdown error")
			}

			logger.Info().Msg("shutdown complete")
			return nil
		},
	}

	return cmd
}
