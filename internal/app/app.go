package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/astrokit/internal/api/classifier"
	"github.com/Alias1177/astrokit/internal/config"
	"github.com/Alias1177/astrokit/internal/database"
	"github.com/Alias1177/astrokit/internal/history"
	"github.com/Alias1177/astrokit/internal/metrics"
	"github.com/Alias1177/astrokit/internal/scoring"
	"github.com/Alias1177/astrokit/models"
)

// ErrInvalidInput marks errors caused by the caller's request
var ErrInvalidInput = errors.New("invalid input")

// App bundles the scoring engine and history store every front end shares
type App struct {
	Engine   *scoring.Engine
	Store    *history.Store
	Metrics  *metrics.Metrics
	Registry *prometheus.Registry

	now    func() time.Time
	closer io.Closer
	logger zerolog.Logger
}

// Options override pieces of the wiring, mainly for tests
type Options struct {
	Remote models.RemoteClassifier // used instead of building one from config
	Slot   history.Slot            // used instead of opening one from config
	Random scoring.RandomSource
	Now    func() time.Time
}

// New builds an App from configuration
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	logger := log.With().Str("component", "app").Logger()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	profile := scoring.DefaultProfile()
	if cfg.Heuristic.Profile != "" {
		p, err := scoring.LoadProfile(cfg.Heuristic.Profile)
		if err != nil {
			return nil, err
		}
		profile = p
		logger.Info().Str("path", cfg.Heuristic.Profile).Msg("Loaded heuristic profile")
	}

	remote := opts.Remote
	if remote == nil && cfg.Remote.URL != "" {
		remote = classifier.NewClient(classifier.ClientOptions{
			BaseURL:        cfg.Remote.URL,
			RequestTimeout: cfg.Remote.Timeout(),
			RequestsPerSec: cfg.Remote.RequestsPerSec,
			MaxRetries:     cfg.Remote.Retries,
		})
	}
	if remote == nil {
		logger.Info().Msg("No remote classifier configured, scoring locally")
	}

	var closer io.Closer
	slot := opts.Slot
	if slot == nil {
		s, c, err := OpenSlot(ctx, cfg.Store)
		if err != nil {
			return nil, err
		}
		slot, closer = s, c
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &App{
		Engine:   scoring.NewEngine(remote, scoring.NewHeuristic(profile, opts.Random), m),
		Store:    history.NewStore(slot, m),
		Metrics:  m,
		Registry: reg,
		now:      now,
		closer:   closer,
		logger:   logger,
	}, nil
}

// OpenSlot opens the history slot selected by store.driver. The returned
// closer is nil for backends without resources.
func OpenSlot(ctx context.Context, sc config.StoreConfig) (history.Slot, io.Closer, error) {
	switch sc.Driver {
	case "memory":
		return history.NewMemorySlot(), nil, nil
	case "file":
		return history.NewFileSlot(sc.Path), nil, nil
	case "sqlite":
		slot, err := database.NewSQLiteSlot(ctx, sc.Path, sc.Slot)
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite history: %w", err)
		}
		return slot, slot, nil
	case "postgres":
		dsn := sc.DatabaseURL
		if dsn == "" {
			dsn = database.ConnectionParams{
				Host:     sc.Postgres.Host,
				Port:     sc.Postgres.Port,
				User:     sc.Postgres.User,
				Password: sc.Postgres.Password,
				DBName:   sc.Postgres.DBName,
				SSLMode:  sc.Postgres.SSLMode,
			}.DSN()
		}
		slot, err := database.NewPostgresSlot(ctx, dsn, sc.Slot)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to postgres history: %w", err)
		}
		return slot, slot, nil
	}
	return nil, nil, fmt.Errorf("unsupported store driver %q", sc.Driver)
}

// Predict validates the request, scores it and appends it to history
func (a *App) Predict(ctx context.Context, in models.PredictionInput, mission models.MissionModel) (models.PredictionRecord, scoring.Source, error) {
	if !mission.Valid() {
		return models.PredictionRecord{}, "", fmt.Errorf("%w: unknown mission model %q", ErrInvalidInput, mission)
	}
	if err := in.Validate(); err != nil {
		return models.PredictionRecord{}, "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	out := a.Engine.Score(ctx, in, mission)
	record := models.NewRecord(mission, in, out.Result, a.now())
	a.Store.Save(ctx, record)
	return record, out.Source, nil
}

// Close releases the history backend
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}
