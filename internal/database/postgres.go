package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// ConnectionParams holds PostgreSQL connection parameters
type ConnectionParams struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN renders the params as a lib/pq key=value connection string
func (p ConnectionParams) DSN() string {
	sslMode := p.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, sslMode,
	)
}

var postgres = dialect{
	name: "postgres",
	schema: `
		CREATE TABLE IF NOT EXISTS history_slots (
			name TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	read: `SELECT data FROM history_slots WHERE name = $1`,
	upsert: `
		INSERT INTO history_slots (name, data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (name)
		DO UPDATE SET
			data = EXCLUDED.data,
			updated_at = EXCLUDED.updated_at`,
	remove: `DELETE FROM history_slots WHERE name = $1`,
}

// NewPostgresSlot connects with dsn (a URL or key=value string), checks the
// connection and creates the history table if it doesn't exist.
func NewPostgresSlot(ctx context.Context, dsn, name string) (*Slot, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	// Check connection
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	slot, err := newSlot(ctx, db, name, postgres)
	if err != nil {
		db.Close()
		return nil, err
	}
	return slot, nil
}
