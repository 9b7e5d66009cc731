package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"fuelwatch/internal/alert"
	"fuelwatch/internal/database"
	"fuelwatch/internal/report"
)

func alertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alert",
		Short: "Send today's price alert",
		Long:  "Composes the grouped price summary from today's stored prices and sends it to the configured Telegram chat.",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogger()

			if cfg.PostgresDSN == "" {
				return fmt.Errorf("--postgres-dsn is required")
			}
			if cfg.TelegramToken == "" || cfg.TelegramChatID == "" {
				return fmt.Errorf("--telegram-token and --telegram-chat-id are required")
			}

			// Connect to database
			db, err := database.New(cfg.PostgresDSN, logger)
			if err != nil {
				return fmt.Errorf("connecting to database: %w", err)
			}
			defer db.Close()

			ctx := context.Background()

			rows, err := db.QueryDay(ctx, time.Now(), cfg.FuelTypeWhitelist)
			if err != nil {
				return fmt.Errorf("querying today's prices: %w", err)
			}

			text := report.Format(rows)

			dispatcher := alert.New(cfg.TelegramToken, cfg.TelegramChatID, logger)
			if err := dispatcher.Send(ctx, text); err != nil {
				return fmt.Errorf("sending alert: %w", err)
			}

			logger.Info().Int("rows", len(rows)).Msg("alert sent")
			return nil
		},
	}

	return cmd
}
