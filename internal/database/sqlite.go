package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

var sqlite = dialect{
	name: "sqlite",
	schema: `
		CREATE TABLE IF NOT EXISTS history_slots (
			name       TEXT PRIMARY KEY,
			data       TEXT NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
		)`,
	read: `SELECT data FROM history_slots WHERE name = ?`,
	upsert: `
		INSERT INTO history_slots (name, data, updated_at)
		VALUES (?, ?, datetime('now'))
		ON CONFLICT (name)
		DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at`,
	remove: `DELETE FROM history_slots WHERE name = ?`,
}

// NewSQLiteSlot opens the SQLite database at dsn in WAL mode and creates the
// history table if it doesn't exist.
func NewSQLiteSlot(ctx context.Context, dsn, name string) (*Slot, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite: exec %s: %w", pragma, err)
		}
	}

	slot, err := newSlot(ctx, db, name, sqlite)
	if err != nil {
		db.Close()
		return nil, err
	}
	return slot, nil
}
