// Package database provides PostgreSQL database operations for the fuel price scraper.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"

	"fuelwatch/internal/models"
)

// ErrDuplicateDay indicates a batch for the same provider and calendar day
// has already been stored. The check runs inside the insert transaction, so
// callers relying on HasObservation alone must still handle this.
var ErrDuplicateDay = errors.New("observations already stored for this day")

const dateFormat = "2006-01-02"

// DB wraps the PostgreSQL database connection and provides operations for fuel prices.
type DB struct {
	db     *sql.DB
	logger zerolog.Logger
}

// New creates a new database connection.
func New(dsn string, logger zerolog.Logger) (*DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database connection: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return NewFromDB(db, logger), nil
}

// NewFromDB wraps an already opened connection. Used by tests that run the
// store against an in-memory engine.
func NewFromDB(db *sql.DB, logger zerolog.Logger) *DB {
	return &DB{
		db:     db,
		logger: logger.With().Str("component", "database").Logger(),
	}
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks if the database connection is alive.
func (d *DB) Ping() error {
	return d.db.Ping()
}

// EnsureSchema creates the fuel_prices table if it does not exist. Safe to
// call on every run.
func (d *DB) EnsureSchema(ctx context.Context) error {
	createTable := `
		CREATE TABLE IF NOT EXISTS fuel_prices (
			id SERIAL PRIMARY KEY,
			date DATE NOT NULL,
			provider VARCHAR(50),
			type VARCHAR(50),
			price NUMERIC(10, 2)
		)
	`
	if _, err := d.db.ExecContext(ctx, createTable); err != nil {
		return fmt.Errorf("creating fuel_prices table: %w", err)
	}

	createIndex := `
		CREATE INDEX IF NOT EXISTS idx_fuel_prices_date_provider
		ON fuel_prices (date, provider)
	`
	if _, err := d.db.ExecContext(ctx, createIndex); err != nil {
		return fmt.Errorf("creating fuel_prices index: %w", err)
	}

	return nil
}

// HasObservation checks if any observation exists for the given provider and
// calendar day. This is the per-provider daily uniqueness gate; fuel types
// are deliberately not part of the check.
func (d *DB) HasObservation(ctx context.Context, day time.Time, provider string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM fuel_prices
			WHERE date = $1 AND provider = $2
		)
	`

	var exists bool
	err := d.db.QueryRowContext(ctx, query, day.Format(dateFormat), provider).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking existence: %w", err)
	}

	return exists, nil
}

// InsertBatch writes one provider's observations for the given day and
// returns the number of rows written. The duplicate-day check is repeated
// inside the transaction; if a batch already exists nothing is written and
// ErrDuplicateDay is returned.
func (d *DB) InsertBatch(ctx context.Context, day time.Time, provider string, observations []models.Observation) (int, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	date := day.Format(dateFormat)

	var exists bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM fuel_prices
			WHERE date = $1 AND provider = $2
		)
	`, date, provider).Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("checking existence: %w", err)
	}
	if exists {
		return 0, ErrDuplicateDay
	}

	for _, obs := range observations {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO fuel_prices (date, provider, type, price)
			VALUES ($1, $2, $3, $4)
		`, date, obs.Provider, obs.FuelType, obs.Price)
		if err != nil {
			return 0, fmt.Errorf("inserting observation: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing batch: %w", err)
	}

	d.logger.Debug().
		Str("provider", provider).
		Str("date", date).
		Int("count", len(observations)).
		Msg("inserted observation batch")

	return len(observations), nil
}

// QueryDay returns the stored rows for the given day whose fuel type is in
// the whitelist, ordered by provider then fuel type. Whitelist matching is
// exact on the raw label.
func (d *DB) QueryDay(ctx context.Context, day time.Time, whitelist []string) ([]models.ReportRow, error) {
	if len(whitelist) == 0 {
		return nil, nil
	}

	placeholders := make([]string, 0, len(whitelist))
	args := make([]any, 0, len(whitelist)+1)
	args = append(args, day.Format(dateFormat))
	for i, t := range whitelist {
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+2))
		args = append(args, t)
	}

	query := fmt.Sprintf(`
		SELECT provider, type, price
		FROM fuel_prices
		WHERE date = $1 AND type IN (%s)
		ORDER BY provider, type
	`, strings.Join(placeholders, ", "))

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying prices: %w", err)
	}
	defer rows.Close()

	var result []models.ReportRow
	for rows.Next() {
		var row models.ReportRow
		if err := rows.Scan(&row.Provider, &row.FuelType, &row.Price); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	return result, nil
}

// TotalObservations returns the total number of price rows in the database.
func (d *DB) TotalObservations(ctx context.Context) (int64, error) {
	var count int64
	err := d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM fuel_prices").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting prices: %w", err)
	}
	return count, nil
}
