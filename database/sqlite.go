package database

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Open opens (or creates) the SQLite history file at path and makes sure the
// schema exists. The returned handle is safe for the monitor's single logical
// thread of execution; callers own closing it.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	// SQLite allows a single writer; keeping the pool at one connection also
	// makes in-memory databases behave in tests.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping history database: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// createSchema creates the history table and its lookup index if they do not
// exist yet. The historial layout is a compatibility contract and must not
// change.
func createSchema(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS historial (
			id      INTEGER PRIMARY KEY AUTOINCREMENT,
			nombre  TEXT NOT NULL,
			url     TEXT NOT NULL,
			precio  REAL NOT NULL,
			moneda  TEXT,
			fecha   TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_historial_url_fecha ON historial (url, fecha)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}
