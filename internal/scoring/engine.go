package scoring

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/astrokit/internal/metrics"
	"github.com/Alias1177/astrokit/models"
)

// Source tells which arm produced a result
type Source string

const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
)

// ErrNoRemote is the fallback reason when no remote classifier is configured
var ErrNoRemote = errors.New("remote classifier not configured")

// Outcome is the two-armed scoring result
type Outcome struct {
	Result    models.PredictionResult `json:"result"`
	Source    Source                  `json:"source"`
	RemoteErr error                   `json:"-"` // why the local arm ran; nil for remote results
}

// Engine scores observations remote-first with a local fallback
type Engine struct {
	remote    models.RemoteClassifier
	heuristic *Heuristic
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

// NewEngine wires the engine. remote and m may be nil.
func NewEngine(remote models.RemoteClassifier, heuristic *Heuristic, m *metrics.Metrics) *Engine {
	return &Engine{
		remote:    remote,
		heuristic: heuristic,
		metrics:   m,
		logger:    log.With().Str("component", "scoring_engine").Logger(),
	}
}

// Heuristic exposes the fallback scorer for auditing
func (e *Engine) Heuristic() *Heuristic {
	return e.heuristic
}

// Score never fails: any remote failure is absorbed by the local heuristic
func (e *Engine) Score(ctx context.Context, in models.PredictionInput, mission models.MissionModel) Outcome {
	out := e.score(ctx, in, mission)
	e.metrics.ObserveScore(string(out.Source), string(out.Result.Status))
	e.logger.Info().
		Str("mission", string(mission)).
		Str("source", string(out.Source)).
		Str("status", string(out.Result.Status)).
		Float64("confidence", out.Result.Confidence).
		Msg("Scored observation")
	return out
}

func (e *Engine) score(ctx context.Context, in models.PredictionInput, mission models.MissionModel) Outcome {
	if e.remote == nil {
		return e.fallback(in, mission, ErrNoRemote)
	}

	res, err := e.remote.Classify(ctx, in, mission)
	if err != nil {
		e.logger.Warn().Err(err).Str("mission", string(mission)).Msg("Remote classifier unavailable, using local heuristic")
		return e.fallback(in, mission, err)
	}
	return Outcome{Result: res, Source: SourceRemote}
}

func (e *Engine) fallback(in models.PredictionInput, mission models.MissionModel, cause error) Outcome {
	return Outcome{
		Result:    e.heuristic.Score(in, mission),
		Source:    SourceLocal,
		RemoteErr: cause,
	}
}
