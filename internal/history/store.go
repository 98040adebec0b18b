package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/astrokit/internal/metrics"
	"github.com/Alias1177/astrokit/models"
)

// Capacity is the maximum number of records kept; older ones are dropped
const Capacity = 100

// Operation labels for failure counting
const (
	opList  = "list"
	opSave  = "save"
	opClear = "clear"
)

// Store is the bounded newest-first prediction history.
// Persistence failures never reach the caller: they are logged and counted.
type Store struct {
	mu      sync.Mutex
	slot    Slot
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewStore wraps slot. m may be nil.
func NewStore(slot Slot, m *metrics.Metrics) *Store {
	return &Store{
		slot:    slot,
		metrics: m,
		logger:  log.With().Str("component", "history_store").Logger(),
	}
}

// Save prepends record and truncates the collection to Capacity.
// A corrupt stored collection is replaced.
func (s *Store) Save(ctx context.Context, record models.PredictionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		s.fail(opSave, err)
		if !isCorrupt(err) {
			return
		}
		records = nil
	}

	next := make([]models.PredictionRecord, 0, min(len(records)+1, Capacity))
	next = append(next, record)
	next = append(next, records...)
	if len(next) > Capacity {
		next = next[:Capacity]
	}

	data, err := json.Marshal(next)
	if err != nil {
		s.fail(opSave, fmt.Errorf("encoding history: %w", err))
		return
	}
	if err := s.slot.Write(ctx, data); err != nil {
		s.fail(opSave, err)
		return
	}
	s.metrics.HistorySize(len(next))
	s.logger.Debug().Str("id", record.ID).Int("records", len(next)).Msg("Saved prediction")
}

// List returns the stored records, newest first. Absent, unreadable or
// corrupt state yields an empty, non-nil slice.
func (s *Store) List(ctx context.Context) []models.PredictionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		s.fail(opList, err)
		return []models.PredictionRecord{}
	}
	return records
}

// Clear removes the whole collection. Clearing an empty history is a no-op.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.slot.Remove(ctx); err != nil {
		s.fail(opClear, err)
		return
	}
	s.metrics.HistorySize(0)
	s.logger.Info().Msg("Cleared prediction history")
}

type corruptError struct {
	err error
}

func (e *corruptError) Error() string { return "corrupt history: " + e.err.Error() }
func (e *corruptError) Unwrap() error { return e.err }

func isCorrupt(err error) bool {
	var ce *corruptError
	return errors.As(err, &ce)
}

func (s *Store) load(ctx context.Context) ([]models.PredictionRecord, error) {
	data, err := s.slot.Read(ctx)
	if err != nil {
		return nil, err
	}
	records := []models.PredictionRecord{}
	if len(data) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &corruptError{err: err}
	}
	if records == nil {
		// stored literal null
		records = []models.PredictionRecord{}
	}
	return records, nil
}

func (s *Store) fail(op string, err error) {
	s.metrics.HistoryFailure(op)
	s.logger.Error().Err(err).Str("op", op).Msg("History persistence failed")
}
