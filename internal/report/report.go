// Package report renders stored fuel prices into the daily alert message.
package report

import (
	"fmt"
	"strings"

	"fuelwatch/internal/models"
)

// EmptyMessage is returned when no prices are stored for today.
const EmptyMessage = "No fuel prices available for today."

// Format renders the report rows into the alert text. Rows are grouped by
// their raw fuel type label, groups appear in first-seen input order and
// entries keep input order within a group. Prices are rendered with exactly
// two decimal places. Pure function, no I/O.
func Format(rows []models.ReportRow) string {
	if len(rows) == 0 {
		return EmptyMessage
	}

	order := make([]string, 0, len(rows))
	grouped := make(map[string][]models.ReportRow)
	for _, row := range rows {
		if _, seen := grouped[row.FuelType]; !seen {
			order = append(order, row.FuelType)
		}
		grouped[row.FuelType] = append(grouped[row.FuelType], row)
	}

	var b strings.Builder
	b.WriteString("🚗 Fuel Prices for Today:\n\n")
	for _, fuelType := range order {
		fmt.Fprintf(&b, "🔹 %s:\n", fuelType)
		for _, row := range grouped[fuelType] {
			fmt.Fprintf(&b, "  - %s: %.2f THB\n", row.Provider, row.Price)
		}
		b.WriteString("\n")
	}

	return b.String()
}
