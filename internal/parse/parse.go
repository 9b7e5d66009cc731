// Package parse extracts fuel price observations from the aggregator page markup.
package parse

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"fuelwatch/internal/models"
)

// ErrContainerNotFound indicates the provider's container is absent from the
// page. A container that is present but lists no prices is not an error.
var ErrContainerNotFound = errors.New("container not found")

// Error indicates a provider's section of the page could not be parsed.
type Error struct {
	Provider  string
	Container string
	Err       error
}

func (e *Error) Error() string {
	return fmt.Sprintf("parsing %s (container %q): %v", e.Provider, e.Container, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Parse extracts the (fuel type, price) entries for one provider. The
// container names the class of the provider's article element; each li inside
// it carries the fuel type label in a span and the price in an em. Entry
// order is preserved, labels and prices are whitespace-trimmed, and fuel type
// labels are stored verbatim.
func Parse(markup []byte, container, provider string) ([]models.Observation, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return nil, &Error{Provider: provider, Container: container, Err: err}
	}

	sel := doc.Find("article." + strings.Join(strings.Fields(container), "."))
	if sel.Length() == 0 {
		return nil, &Error{Provider: provider, Container: container, Err: ErrContainerNotFound}
	}

	observations := []models.Observation{}
	var entryErr error

	sel.First().Find("li").EachWithBreak(func(_ int, li *goquery.Selection) bool {
		label := strings.TrimSpace(li.Find("span").First().Text())
		raw := strings.TrimSpace(li.Find("em").First().Text())

		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			entryErr = &Error{
				Provider:  provider,
				Container: container,
				Err:       fmt.Errorf("invalid price %q for %q: %w", raw, label, err),
			}
			return false
		}
		if price < 0 {
			entryErr = &Error{
				Provider:  provider,
				Container: container,
				Err:       fmt.Errorf("negative price %q for %q", raw, label),
			}
			return false
		}

		observations = append(observations, models.Observation{
			Provider: provider,
			FuelType: label,
			Price:    price,
		})
		return true
	})
	if entryErr != nil {
		return nil, entryErr
	}

	return observations, nil
}
