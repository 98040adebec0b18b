package scoring

import (
	"math"

	"github.com/Alias1177/astrokit/models"
)

// Fixed explanation templates, one per status
const (
	ExplanationCandidate     = "Strong signals indicate this is likely a planetary candidate. High confidence score, favorable orbital parameters, and minimal false positive flags suggest a genuine exoplanet transit."
	ExplanationUnknown       = "Moderate confidence. The signal shows characteristics of a potential planet, but requires additional observation and analysis to confirm. Some parameters fall outside optimal ranges."
	ExplanationFalsePositive = "Low confidence signals suggest this is likely a false positive. Detected anomalies may be caused by stellar activity, instrumental artifacts, or other non-planetary phenomena."
)

// Explanation returns the fixed template for status
func Explanation(status models.Status) string {
	switch status {
	case models.StatusCandidate:
		return ExplanationCandidate
	case models.StatusFalsePositive:
		return ExplanationFalsePositive
	}
	return ExplanationUnknown
}

// Contribution is one feature's share of the weighted sum
type Contribution struct {
	Feature string  `json:"feature"`
	Score   float64 `json:"score"` // normalized feature score
	Weight  float64 `json:"weight"`
	Value   float64 `json:"value"` // Score * Weight
}

// Breakdown is the deterministic part of a fallback evaluation
type Breakdown struct {
	Contributions []Contribution `json:"contributions"`
	FlagPenalty   float64        `json:"flagPenalty"`  // raw penalty before the flags weight
	MissionBonus  float64        `json:"missionBonus"` // additive
	Base          float64        `json:"base"`         // clamped score before noise
}

// Heuristic is the local fallback scorer
type Heuristic struct {
	profile Profile
	rand    RandomSource
}

// NewHeuristic builds a heuristic over profile. A nil rand uses a time-seeded source.
func NewHeuristic(profile Profile, rand RandomSource) *Heuristic {
	if rand == nil {
		rand = NewRandomSource()
	}
	return &Heuristic{profile: profile, rand: rand}
}

// Profile returns the constants the heuristic evaluates with
func (h *Heuristic) Profile() Profile {
	return h.profile
}

// Evaluate computes the weighted sum, flag penalty and mission bonus without noise
func (h *Heuristic) Evaluate(in models.PredictionInput, mission models.MissionModel) Breakdown {
	p := h.profile
	w := p.Weights

	contributions := []Contribution{
		contribution("nasaConfidence", in.NASAConfidence, w.NASAConfidence),
		contribution("signalToNoise", math.Min(in.SignalToNoise/p.SNRScale, 1), w.SignalToNoise),
		contribution("transitDepth", math.Min(in.TransitDepth/p.DepthScale, 1), w.TransitDepth),
		contribution("orbitalPeriod", p.Ranges.OrbitalPeriod.Score(in.OrbitalPeriod), w.OrbitalPeriod),
		contribution("transitDuration", p.Ranges.TransitDuration.Score(in.TransitDuration), w.TransitDuration),
		contribution("planetRadius", p.Ranges.PlanetRadius.Score(in.PlanetRadius), w.PlanetRadius),
		contribution("planetTemperature", p.Ranges.PlanetTemperature.Score(in.PlanetTemperature), w.PlanetTemperature),
	}

	score := 0.0
	for _, c := range contributions {
		score += c.Value
	}

	// The per-flag constants are already penalties; the flags weight still applies on top.
	penalty := flagValue(in.FlagNotTransit, p.FlagPenalty.NotTransit) +
		flagValue(in.FlagStellarEclipse, p.FlagPenalty.StellarEclipse) +
		flagValue(in.FlagCentroidOffset, p.FlagPenalty.CentroidOffset) +
		flagValue(in.FlagEphemerisMatch, p.FlagPenalty.EphemerisMatch)
	score -= penalty * w.Flags

	bonus := p.MissionBonus[mission]
	score += bonus

	return Breakdown{
		Contributions: contributions,
		FlagPenalty:   penalty,
		MissionBonus:  bonus,
		Base:          clamp01(score),
	}
}

// Score runs the full fallback: evaluate, add noise, classify, round
func (h *Heuristic) Score(in models.PredictionInput, mission models.MissionModel) models.PredictionResult {
	b := h.Evaluate(in, mission)
	noise := (h.rand.Float64() - 0.5) * h.profile.NoiseAmplitude
	score := clamp01(b.Base + noise)

	status := h.Classify(score)
	return models.PredictionResult{
		Status:      status,
		Confidence:  math.Round(score*100) / 100,
		Explanation: Explanation(status),
	}
}

// Classify maps a score in [0,1] onto a status using the profile thresholds
func (h *Heuristic) Classify(score float64) models.Status {
	switch {
	case score >= h.profile.Thresholds.Candidate:
		return models.StatusCandidate
	case score >= h.profile.Thresholds.Unknown:
		return models.StatusUnknown
	default:
		return models.StatusFalsePositive
	}
}

func contribution(feature string, score, weight float64) Contribution {
	return Contribution{Feature: feature, Score: score, Weight: weight, Value: score * weight}
}

func flagValue(set bool, penalty float64) float64 {
	if set {
		return penalty
	}
	return 0
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
