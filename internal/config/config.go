// Package config provides configuration structures and loading for the fuel price scraper.
package config

import (
	"os"
	"strings"

	"fuelwatch/internal/models"
)

// Config holds all configuration for the fuel price scraper.
type Config struct {
	// PostgreSQL connection string
	PostgresDSN string
	// Log level (debug, info, warn, error)
	LogLevel string
	// Log format (json, console)
	LogFormat string
	// HTTP server address
	HTTPAddr string
	// URL of the aggregator page listing all provider prices
	PageURL string
	// Path to a local HTML fixture used instead of the network
	FixturePath string
	// Read the fixture file instead of fetching the page
	UseFixture bool
	// Telegram bot token for price alerts
	TelegramToken string
	// Telegram chat ID the alert is sent to
	TelegramChatID string
	// Providers to scrape, in order, with their page containers
	Providers []models.ProviderConfig
	// Fuel type labels included in the alert report
	FuelTypeWhitelist []string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		PostgresDSN: "",
		LogLevel:    "info",
		LogFormat:   "json",
		HTTPAddr:    ":8080",
		PageURL:     "https://gasprice.kapook.com/gasprice.php",
		FixturePath: "./raw/gasprice.html",
		UseFixture:  false,
		Providers: []models.ProviderConfig{
			{Name: "ptt", Container: "gasprice ptt"},
			{Name: "bcp", Container: "gasprice bcp"},
			{Name: "shell", Container: "gasprice shell"},
			{Name: "esso", Container: "gasprice esso"},
			{Name: "caltex", Container: "gasprice caltex"},
			{Name: "pt", Container: "gasprice pt"},
			{Name: "susco", Container: "gasprice susco"},
		},
		FuelTypeWhitelist: []string{"แก๊สโซฮอล์ 95", "แก๊สโซฮอล์ E20", "ดีเซล B7"},
	}
}

// LoadFromEnv loads configuration from environment variables.
func (c *Config) LoadFromEnv() {
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		c.PostgresDSN = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		c.HTTPAddr = v
	}
	if v := os.Getenv("PAGE_URL"); v != "" {
		c.PageURL = v
	}
	if v := os.Getenv("FIXTURE_PATH"); v != "" {
		c.FixturePath = v
	}
	if v := os.Getenv("USE_FIXTURE"); v != "" {
		c.UseFixture = strings.ToLower(v) == "true"
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.TelegramToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.TelegramChatID = v
	}
	if v := os.Getenv("PROVIDERS"); v != "" {
		c.Providers = parseProviders(v)
	}
	if v := os.Getenv("FUEL_TYPE_WHITELIST"); v != "" {
		c.FuelTypeWhitelist = splitAndTrim(v)
	}
}

// parseProviders builds the provider list from a comma-separated list of
// names. The aggregator page marks each provider's container with a
// "gasprice <name>" class, so the container is derived from the name.
func parseProviders(v string) []models.ProviderConfig {
	names := splitAndTrim(v)
	providers := make([]models.ProviderConfig, 0, len(names))
	for _, name := range names {
		providers = append(providers, models.ProviderConfig{
			Name:      name,
			Container: "gasprice " + name,
		})
	}
	return providers
}

func splitAndTrim(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
