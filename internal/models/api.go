package models

// ProviderOutcome is the per-provider detail embedded in a scrape response.
type ProviderOutcome struct {
	Provider    string `json:"provider"`
	Outcome     string `json:"outcome"`
	RowsWritten int    `json:"rows_written"`
	Error       string `json:"error,omitempty"`
}

// ScrapeResponse is the response for the scrape trigger endpoint.
type ScrapeResponse struct {
	Status    int               `json:"status"`
	Message   string            `json:"message"`
	Date      string            `json:"date"`
	Providers []ProviderOutcome `json:"providers"`
}

// SuccessResponse is the generic success envelope.
type SuccessResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// ErrorResponse is the generic error envelope.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// StatusResponse is the response for the /status endpoint.
type StatusResponse struct {
	Status        string         `json:"status"`
	UptimeSeconds int64          `json:"uptime_seconds"`
	Database      DatabaseStatus `json:"database"`
}

// DatabaseStatus holds the database connection status.
type DatabaseStatus struct {
	Connected         bool  `json:"connected"`
	TotalPricesStored int64 `json:"total_prices_stored"`
}
