package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// dialect holds the statements that differ between drivers
type dialect struct {
	name   string
	schema string
	read   string
	upsert string
	remove string
}

// Slot is a history slot stored as one row of the history_slots table
type Slot struct {
	db   *sql.DB
	name string
	d    dialect
}

// newSlot creates the table if needed and binds the slot to name
func newSlot(ctx context.Context, db *sql.DB, name string, d dialect) (*Slot, error) {
	if name == "" {
		return nil, errors.New("slot name must not be empty")
	}
	if _, err := db.ExecContext(ctx, d.schema); err != nil {
		return nil, fmt.Errorf("%s: create history_slots: %w", d.name, err)
	}
	return &Slot{db: db, name: name, d: d}, nil
}

// Name returns the slot key
func (s *Slot) Name() string {
	return s.name
}

// Read returns the stored bytes, or nil when the slot has never been written
func (s *Slot) Read(ctx context.Context) ([]byte, error) {
	var data sql.NullString
	err := s.db.QueryRowContext(ctx, s.d.read, s.name).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: read slot %s: %w", s.d.name, s.name, err)
	}
	if !data.Valid {
		return nil, nil
	}
	return []byte(data.String), nil
}

// Write replaces the slot value
func (s *Slot) Write(ctx context.Context, data []byte) error {
	if _, err := s.db.ExecContext(ctx, s.d.upsert, s.name, string(data)); err != nil {
		return fmt.Errorf("%s: write slot %s: %w", s.d.name, s.name, err)
	}
	return nil
}

// Remove deletes the slot row; removing a missing slot is not an error
func (s *Slot) Remove(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.d.remove, s.name); err != nil {
		return fmt.Errorf("%s: remove slot %s: %w", s.d.name, s.name, err)
	}
	return nil
}

// Close releases the underlying connection pool
func (s *Slot) Close() error {
	return s.db.Close()
}
