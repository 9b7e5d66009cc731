// Package fetch retrieves the raw markup of the fuel price aggregator page.
package fetch

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// Error indicates the page could not be retrieved.
type Error struct {
	// Source is the URL or fixture path that failed.
	Source string
	// StatusCode is the HTTP status, zero for non-HTTP failures.
	StatusCode int
	// Err is the underlying transport or file error, if any.
	Err error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s: unexpected status code %d", e.Source, e.StatusCode)
	}
	return fmt.Sprintf("fetching %s: %v", e.Source, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Fetcher retrieves the aggregator page, either over HTTP or from a local
// fixture file when fixture mode is enabled.
type Fetcher struct {
	client      *resty.Client
	url         string
	fixturePath string
	useFixture  bool
	logger      zerolog.Logger
}

// New creates a new Fetcher.
func New(url, fixturePath string, useFixture bool, logger zerolog.Logger) *Fetcher {
	return &Fetcher{
		client:      resty.New().SetTimeout(30 * time.Second),
		url:         url,
		fixturePath: fixturePath,
		useFixture:  useFixture,
		logger:      logger.With().Str("component", "fetch").Logger(),
	}
}

// Fetch returns the raw markup of the aggregator page.
func (f *Fetcher) Fetch(ctx context.Context) ([]byte, error) {
	if f.useFixture {
		f.logger.Debug().Str("path", f.fixturePath).Msg("reading fixture file")
		body, err := os.ReadFile(f.fixturePath)
		if err != nil {
			return nil, &Error{Source: f.fixturePath, Err: err}
		}
		return body, nil
	}

	f.logger.Debug().Str("url", f.url).Msg("fetching page")

	resp, err := f.client.R().SetContext(ctx).Get(f.url)
	if err != nil {
		return nil, &Error{Source: f.url, Err: err}
	}
	if resp.IsError() {
		return nil, &Error{Source: f.url, StatusCode: resp.StatusCode()}
	}

	f.logger.Info().
		Str("url", f.url).
		Int("bytes", len(resp.Body())).
		Dur("duration", resp.Time()).
		Msg("fetched page")

	return resp.Body(), nil
}
