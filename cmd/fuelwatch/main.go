// Package main provides the entry point for the fuel price scraper CLI.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"fuelwatch/internal/config"
)

var (
	// Version is set at build time.
	Version = "dev"
	// Commit is set at build time.
	Commit = "none"
	// BuildDate is set at build time.
	BuildDate = "unknown"
)

var cfg *config.Config

func main() {
	cfg = config.DefaultConfig()
	cfg.LoadFromEnv()

	rootCmd := &cobra.Command{
		Use:   "fuelwatch",
		Short: "Fuel price scraper - Thai retail fuel prices, stored daily and alerted to Telegram",
		Long: `Fuel price scraper is a service that scrapes retail fuel prices for several
Thai providers from one aggregator page, stores them in a PostgreSQL database
with a one-batch-per-provider-per-day guarantee, and sends a grouped daily
price summary to a Telegram chat.

Features:
  - Seven providers (PTT, Bangchak, Shell, Esso, Caltex, PT, Susco) from one page fetch
  - Duplicate-day detection per provider
  - Telegram price alert grouped by fuel type
  - Prometheus metrics and status endpoints`,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.PostgresDSN, "postgres-dsn", cfg.PostgresDSN, "PostgreSQL connection string")
	rootCmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (json, console)")
	rootCmd.PersistentFlags().StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP server address for the API, /metrics, /status")
	rootCmd.PersistentFlags().StringVar(&cfg.PageURL, "page-url", cfg.PageURL, "URL of the fuel price aggregator page")
	rootCmd.PersistentFlags().StringVar(&cfg.FixturePath, "fixture-path", cfg.FixturePath, "Path to a local HTML fixture")
	rootCmd.PersistentFlags().BoolVar(&cfg.UseFixture, "use-fixture", cfg.UseFixture, "Read the fixture file instead of fetching the page")
	rootCmd.PersistentFlags().StringVar(&cfg.TelegramToken, "telegram-token", cfg.TelegramToken, "Telegram bot token")
	rootCmd.PersistentFlags().StringVar(&cfg.TelegramChatID, "telegram-chat-id", cfg.TelegramChatID, "Telegram chat ID for alerts")

	// Add subcommands
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(scrapeCmd())
	rootCmd.AddCommand(alertCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setupLogger() zerolog.Logger {
	var logger zerolog.Logger

	// Set log level
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Set log format
	if cfg.LogFormat == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
	} else {
		logger = zerolog.New(os.Stdout).
			With().
			Timestamp().
			Logger()
	}

	return logger
}
