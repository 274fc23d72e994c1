package repository

import (
	"database/sql"
	"fmt"
	"time"

	"pricewatch/models"

	"github.com/shopspring/decimal"
)

// dateLayout is the textual timestamp format persisted in the fecha column.
const dateLayout = "2006-01-02 15:04:05"

// HistoryRepository is the append-only store of price readings. Each method
// is a single self-contained operation on the shared pool; no connection is
// held between calls and no transaction spans more than one reading.
type HistoryRepository struct {
	db *sql.DB
}

func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Insert appends one reading. The timestamp is assigned here, not by the
// caller, so readings written by a single process are totally ordered.
func (r *HistoryRepository) Insert(name, url string, price decimal.Decimal, currency string) error {
	query := `INSERT INTO historial (nombre, url, precio, moneda, fecha) VALUES (?, ?, ?, ?, ?)`

	_, err := r.db.Exec(query, name, url, price.InexactFloat64(), currency, time.Now().Format(dateLayout))
	if err != nil {
		return fmt.Errorf("failed to insert price reading: %w", err)
	}

	return nil
}

// LastPrice returns the price of the most recent reading for a URL. The id
// tie-break covers readings written within the same second.
func (r *HistoryRepository) LastPrice(url string) (decimal.Decimal, bool, error) {
	query := `SELECT precio FROM historial WHERE url = ? ORDER BY fecha DESC, id DESC LIMIT 1`

	var price float64
	err := r.db.QueryRow(query, url).Scan(&price)
	if err == sql.ErrNoRows {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("failed to get last price: %w", err)
	}

	return decimal.NewFromFloat(price), true, nil
}

// Recent returns the newest limit readings across all products, newest first.
func (r *HistoryRepository) Recent(limit int) ([]models.PriceReading, error) {
	query := `
		SELECT id, nombre, url, precio, moneda, fecha
		FROM historial
		ORDER BY fecha DESC, id DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent readings: %w", err)
	}
	defer rows.Close()

	var readings []models.PriceReading
	for rows.Next() {
		var (
			reading models.PriceReading
			price   float64
			moneda  sql.NullString
		)
		if err := rows.Scan(&reading.ID, &reading.Name, &reading.URL, &price, &moneda, &reading.Date); err != nil {
			return nil, fmt.Errorf("failed to scan reading: %w", err)
		}
		reading.Price = decimal.NewFromFloat(price)
		reading.Currency = moneda.String
		readings = append(readings, reading)
	}

	return readings, rows.Err()
}
