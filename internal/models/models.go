// Package models provides shared data types for the fuel price scraper.
package models

// Observation is one (provider, fuel type, price) fact parsed from the
// aggregator page. The fuel type label is kept verbatim as published by the
// provider; labels are not normalized across providers.
type Observation struct {
	// Provider is the retail brand identifier (e.g., "ptt", "shell").
	Provider string
	// FuelType is the provider-reported label, whitespace-trimmed only.
	FuelType string
	// Price is the pump price with two-decimal semantics.
	Price float64
}

// ReportRow is one row of the daily price report, read back from the store.
type ReportRow struct {
	Provider string
	FuelType string
	Price    float64
}

// ProviderConfig maps a provider identifier to the class of its container
// on the aggregator page. Order matters: ingestion walks providers in the
// order they are configured.
type ProviderConfig struct {
	// Name is the provider identifier stored with each observation.
	Name string
	// Container is the class attribute of the provider's article element
	// (e.g., "gasprice ptt").
	Container string
}
