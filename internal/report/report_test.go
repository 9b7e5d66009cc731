package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"fuelwatch/internal/models"
)

func TestFormat_EmptyRows(t *testing.T) {
	require.Equal(t, EmptyMessage, Format(nil))
	require.Equal(t, EmptyMessage, Format([]models.ReportRow{}))
}

func TestFormat_GroupsByFuelType(t *testing.T) {
	rows := []models.ReportRow{
		{Provider: "Provider1", FuelType: "FuelType1", Price: 10.99},
		{Provider: "Provider2", FuelType: "FuelType2", Price: 11.99},
	}

	got := Format(rows)

	want := "🚗 Fuel Prices for Today:\n\n" +
		"🔹 FuelType1:\n" +
		"  - Provider1: 10.99 THB\n\n" +
		"🔹 FuelType2:\n" +
		"  - Provider2: 11.99 THB\n\n"
	require.Equal(t, want, got)
}

func TestFormat_GroupOrderIsFirstSeen(t *testing.T) {
	rows := []models.ReportRow{
		{Provider: "bcp", FuelType: "ดีเซล B7", Price: 29.94},
		{Provider: "bcp", FuelType: "แก๊สโซฮอล์ 95", Price: 34.85},
		{Provider: "ptt", FuelType: "ดีเซล B7", Price: 29.94},
	}

	got := Format(rows)

	dieselIdx := strings.Index(got, "ดีเซล B7")
	gasoholIdx := strings.Index(got, "แก๊สโซฮอล์ 95")
	require.True(t, dieselIdx >= 0 && gasoholIdx >= 0)
	require.Less(t, dieselIdx, gasoholIdx)

	// Entries within a group keep input order.
	bcpIdx := strings.Index(got, "  - bcp: 29.94 THB")
	pttIdx := strings.Index(got, "  - ptt: 29.94 THB")
	require.True(t, bcpIdx >= 0 && pttIdx >= 0)
	require.Less(t, bcpIdx, pttIdx)
}

func TestFormat_TwoDecimalPlaces(t *testing.T) {
	rows := []models.ReportRow{
		{Provider: "ptt", FuelType: "Diesel", Price: 30},
		{Provider: "shell", FuelType: "Diesel", Price: 31.5},
	}

	got := Format(rows)
	require.Contains(t, got, "  - ptt: 30.00 THB")
	require.Contains(t, got, "  - shell: 31.50 THB")
}

func TestFormat_ExactLabelsStayDistinct(t *testing.T) {
	// Labels differing only in encoding or spacing are distinct groups.
	rows := []models.ReportRow{
		{Provider: "ptt", FuelType: "ดีเซล B7", Price: 29.94},
		{Provider: "shell", FuelType: "ดีเซล B7 ", Price: 31.14},
	}

	got := Format(rows)
	require.Equal(t, 2, strings.Count(got, "🔹 "))
}
