// Package ingest orchestrates one scrape-parse-persist run across all configured providers.
package ingest

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"fuelwatch/internal/database"
	"fuelwatch/internal/models"
	"fuelwatch/internal/parse"
)

// Outcome classifies the result of one provider within a run.
type Outcome string

const (
	// OutcomeSucceeded means the provider's batch was parsed and stored.
	OutcomeSucceeded Outcome = "succeeded"
	// OutcomeConflict means a batch for this provider and day already
	// exists. This is an expected result, not an error.
	OutcomeConflict Outcome = "conflict"
	// OutcomeFailed means parsing or storage failed for this provider.
	OutcomeFailed Outcome = "failed"
)

// ProviderResult is the per-provider outcome of an ingestion run.
type ProviderResult struct {
	Provider    string
	Outcome     Outcome
	RowsWritten int
	Err         error
}

// BatchResult aggregates the outcomes of one ingestion run.
type BatchResult struct {
	// Date is the calendar day the observations were stamped with.
	Date time.Time
	// Results holds one entry per configured provider, in configuration order.
	Results []ProviderResult
	// Observations is the flattened list of all rows written in this run.
	Observations []models.Observation
}

// AllConflicted reports whether every provider in the run hit the
// duplicate-day gate.
func (r *BatchResult) AllConflicted() bool {
	if len(r.Results) == 0 {
		return false
	}
	for _, res := range r.Results {
		if res.Outcome != OutcomeConflict {
			return false
		}
	}
	return true
}

// Counts returns the number of succeeded, conflicted and failed providers.
func (r *BatchResult) Counts() (succeeded, conflicted, failed int) {
	for _, res := range r.Results {
		switch res.Outcome {
		case OutcomeSucceeded:
			succeeded++
		case OutcomeConflict:
			conflicted++
		case OutcomeFailed:
			failed++
		}
	}
	return succeeded, conflicted, failed
}

// PageFetcher retrieves the raw aggregator page markup.
type PageFetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// PriceStore is the subset of store operations the pipeline needs.
type PriceStore interface {
	EnsureSchema(ctx context.Context) error
	HasObservation(ctx context.Context, day time.Time, provider string) (bool, error)
	InsertBatch(ctx context.Context, day time.Time, provider string, observations []models.Observation) (int, error)
}

// MetricsRecorder receives operational metrics from the pipeline.
type MetricsRecorder interface {
	RecordFetch(status string, duration float64)
	RecordProviderOutcome(provider, outcome string)
	RecordRowsWritten(count float64)
}

// Pipeline runs the fetch-parse-persist sequence for all configured providers.
type Pipeline struct {
	store     PriceStore
	fetcher   PageFetcher
	providers []models.ProviderConfig
	metrics   MetricsRecorder
	logger    zerolog.Logger
}

// New creates a new Pipeline.
func New(store PriceStore, fetcher PageFetcher, providers []models.ProviderConfig, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		store:     store,
		fetcher:   fetcher,
		providers: providers,
		logger:    logger.With().Str("component", "ingest").Logger(),
	}
}

// SetMetrics wires Prometheus metrics to the pipeline.
func (p *Pipeline) SetMetrics(m MetricsRecorder) {
	p.metrics = m
}

// Run executes one ingestion run. The page is fetched exactly once and the
// markup reused for every provider. A provider's parse or storage failure is
// recorded in the result and never aborts the remaining providers; only a
// schema or fetch failure is fatal to the run.
func (p *Pipeline) Run(ctx context.Context) (*BatchResult, error) {
	if err := p.store.EnsureSchema(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	markup, err := p.fetcher.Fetch(ctx)
	if p.metrics != nil {
		status := "success"
		if err != nil {
			status = "error"
		}
		p.metrics.RecordFetch(status, time.Since(start).Seconds())
	}
	if err != nil {
		return nil, err
	}

	result := &BatchResult{Date: time.Now()}

	for _, provider := range p.providers {
		res, observations := p.runProvider(ctx, markup, result.Date, provider)
		result.Results = append(result.Results, res)
		if res.Outcome == OutcomeSucceeded {
			result.Observations = append(result.Observations, observations...)
		}

		if p.metrics != nil {
			p.metrics.RecordProviderOutcome(provider.Name, string(res.Outcome))
		}

		switch res.Outcome {
		case OutcomeSucceeded:
			p.logger.Info().
				Str("provider", provider.Name).
				Int("rows", res.RowsWritten).
				Msg("stored provider batch")
		case OutcomeConflict:
			p.logger.Info().
				Str("provider", provider.Name).
				Str("date", result.Date.Format("2006-01-02")).
				Msg("batch already stored for today, skipping")
		case OutcomeFailed:
			p.logger.Error().
				Err(res.Err).
				Str("provider", provider.Name).
				Msg("provider ingestion failed")
		}
	}

	if p.metrics != nil {
		p.metrics.RecordRowsWritten(float64(len(result.Observations)))
	}

	succeeded, conflicted, failed := result.Counts()
	p.logger.Info().
		Int("succeeded", succeeded).
		Int("conflicted", conflicted).
		Int("failed", failed).
		Msg("ingestion run completed")

	return result, nil
}

// runProvider parses and persists one provider's batch.
func (p *Pipeline) runProvider(ctx context.Context, markup []byte, day time.Time, provider models.ProviderConfig) (ProviderResult, []models.Observation) {
	res := ProviderResult{Provider: provider.Name}

	observations, err := parse.Parse(markup, provider.Container, provider.Name)
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Err = err
		return res, nil
	}

	// Early exit; the insert transaction repeats this check.
	exists, err := p.store.HasObservation(ctx, day, provider.Name)
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Err = err
		return res, nil
	}
	if exists {
		res.Outcome = OutcomeConflict
		return res, nil
	}

	written, err := p.store.InsertBatch(ctx, day, provider.Name, observations)
	if errors.Is(err, database.ErrDuplicateDay) {
		res.Outcome = OutcomeConflict
		return res, nil
	}
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Err = err
		return res, nil
	}

	res.Outcome = OutcomeSucceeded
	res.RowsWritten = written
	return res, observations
}
