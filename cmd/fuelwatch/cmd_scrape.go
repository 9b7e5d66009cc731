package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"fuelwatch/internal/database"
	"fuelwatch/internal/fetch"
	"fuelwatch/internal/ingest"
)

func scrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Run a one-time scrape",
		Long:  "Fetches the aggregator page once, parses every configured provider and stores the prices. Useful for testing.",
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
				Strs("providers", providerNames).
				Bool("useFixture", cfg.UseFixture).
				Msg("running one-time scrape")

			// Connect to database
			db, err := database.New(cfg.PostgresDSN, logger)
			if err != nil {
				return fmt.Errorf("connecting to database: %w", err)
			}
			defer db.Close()

			// Run the ingestion
			fetcher := fetch.New(cfg.PageURL, cfg.FixturePath, cfg.UseFixture, logger)
			pipeline := ingest.New(db, fetcher, cfg.Providers, logger)

			result, err := pipeline.Run(context.Background())
			if err != nil {
				return fmt.Errorf("scraping: %w", err)
			}

			for _, res := range result.Results {
				if res.Err != nil {
					logger.Warn().
						Err(res.Err).
						Str("provider", res.Provider).
						Str("outcome", string(res.Outcome)).
						Msg("provider did not succeed")
				}
			}

			logger.Info().
				Int("rowsWritten", len(result.Observations)).
				Msg("scrape completed")
			return nil
		},
	}

	return cmd
}
