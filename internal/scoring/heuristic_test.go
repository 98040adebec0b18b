package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alias1177/astrokit/models"
)

const eps = 1e-9

// strongSignal is the TESS reference observation: every range feature in band,
// only the ephemeris-match flag set.
func strongSignal() models.PredictionInput {
	return models.PredictionInput{
		NASAConfidence:     0.9,
		SignalToNoise:      80,
		TransitDepth:       3000,
		OrbitalPeriod:      20,
		TransitDuration:    3,
		PlanetRadius:       2,
		PlanetTemperature:  500,
		FlagEphemerisMatch: true,
	}
}

// weakSignal has every flag raised and every numeric field at its lowest valid value.
func weakSignal() models.PredictionInput {
	return models.PredictionInput{
		NASAConfidence:     0,
		SignalToNoise:      0,
		TransitDepth:       0,
		OrbitalPeriod:      0.01,
		TransitDuration:    0.01,
		PlanetRadius:       0.01,
		PlanetTemperature:  0.01,
		FlagNotTransit:     true,
		FlagStellarEclipse: true,
		FlagCentroidOffset: true,
		FlagEphemerisMatch: true,
	}
}

func TestEvaluate_StrongSignalTESS(t *testing.T) {
	h := NewHeuristic(DefaultProfile(), FixedSource(0.5))
	b := h.Evaluate(strongSignal(), models.MissionTESS)

	// 0.225 + 0.16 + 0.09 + 0.1 + 0.1 + 0.1 + 0.05 = 0.825
	// flags: -(-0.1 * 0.05) = +0.005, TESS bonus +0.05
	assert.InDelta(t, 0.88, b.Base, eps)
	assert.InDelta(t, -0.1, b.FlagPenalty, eps)
	assert.InDelta(t, 0.05, b.MissionBonus, eps)
	require.Len(t, b.Contributions, 7)
	assert.Equal(t, "nasaConfidence", b.Contributions[0].Feature)
	assert.InDelta(t, 0.225, b.Contributions[0].Value, eps)
	assert.InDelta(t, 0.8, b.Contributions[1].Score, eps)
	assert.InDelta(t, 0.6, b.Contributions[2].Score, eps)

	res := h.Score(strongSignal(), models.MissionTESS)
	assert.Equal(t, models.StatusCandidate, res.Status)
	assert.Equal(t, 0.88, res.Confidence)
	assert.Equal(t, ExplanationCandidate, res.Explanation)
}

func TestScore_StrongSignalIsCandidateForAnyDraw(t *testing.T) {
	for _, r := range []float64{0, 0.1, 0.5, 0.9, 0.999999} {
		h := NewHeuristic(DefaultProfile(), FixedSource(r))
		res := h.Score(strongSignal(), models.MissionTESS)
		assert.Equal(t, models.StatusCandidate, res.Status, "draw %v", r)
		assert.GreaterOrEqual(t, res.Confidence, 0.85)
		assert.LessOrEqual(t, res.Confidence, 0.91)
	}
}

func TestScore_WeakSignalKeplerIsFalsePositive(t *testing.T) {
	h := NewHeuristic(DefaultProfile(), FixedSource(0.5))
	b := h.Evaluate(weakSignal(), models.MissionKepler)
	// 0.05 + 0.06 + 0.07 + 0.03 - 0.65*0.05
	assert.InDelta(t, 0.1775, b.Base, eps)

	for _, r := range []float64{0, 0.5, 0.999999} {
		h := NewHeuristic(DefaultProfile(), FixedSource(r))
		res := h.Score(weakSignal(), models.MissionKepler)
		assert.Equal(t, models.StatusFalsePositive, res.Status, "draw %v", r)
		assert.Equal(t, ExplanationFalsePositive, res.Explanation)
	}
}

func TestMissionBonus(t *testing.T) {
	in := strongSignal()
	in.NASAConfidence = 0.2
	h := NewHeuristic(DefaultProfile(), FixedSource(0.5))

	kepler := h.Evaluate(in, models.MissionKepler).Base
	assert.InDelta(t, 0.02, h.Evaluate(in, models.MissionK2).Base-kepler, eps)
	assert.InDelta(t, 0.05, h.Evaluate(in, models.MissionTESS).Base-kepler, eps)
}

func TestFlagPenaltyIsDoubleDiscounted(t *testing.T) {
	base := strongSignal()
	base.FlagEphemerisMatch = false
	flagged := base
	flagged.FlagNotTransit = true

	h := NewHeuristic(DefaultProfile(), FixedSource(0.5))
	diff := h.Evaluate(base, models.MissionKepler).Base - h.Evaluate(flagged, models.MissionKepler).Base
	assert.InDelta(t, 0.3*0.05, diff, eps)
}

func TestRangeBoundsAreStrict(t *testing.T) {
	tests := []struct {
		name  string
		set   func(*models.PredictionInput)
		index int
		want  float64
	}{
		{"period at lower bound", func(in *models.PredictionInput) { in.OrbitalPeriod = 1 }, 3, 0.5},
		{"period inside", func(in *models.PredictionInput) { in.OrbitalPeriod = 1.0001 }, 3, 1},
		{"period at upper bound", func(in *models.PredictionInput) { in.OrbitalPeriod = 500 }, 3, 0.5},
		{"duration at bound", func(in *models.PredictionInput) { in.TransitDuration = 10 }, 4, 0.6},
		{"radius at bound", func(in *models.PredictionInput) { in.PlanetRadius = 0.5 }, 5, 0.7},
		{"radius large", func(in *models.PredictionInput) { in.PlanetRadius = 25 }, 5, 0.7},
		{"temperature at bound", func(in *models.PredictionInput) { in.PlanetTemperature = 2000 }, 6, 0.6},
		{"temperature cold", func(in *models.PredictionInput) { in.PlanetTemperature = 150 }, 6, 0.6},
	}

	h := NewHeuristic(DefaultProfile(), FixedSource(0.5))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := strongSignal()
			tt.set(&in)
			b := h.Evaluate(in, models.MissionKepler)
			assert.Equal(t, tt.want, b.Contributions[tt.index].Score)
		})
	}
}

func TestNormalizationClamps(t *testing.T) {
	in := strongSignal()
	in.NASAConfidence = 1
	in.SignalToNoise = 5000
	in.TransitDepth = 1e6

	h := NewHeuristic(DefaultProfile(), FixedSource(0.5))
	b := h.Evaluate(in, models.MissionTESS)
	assert.Equal(t, 1.0, b.Contributions[1].Score)
	assert.Equal(t, 1.0, b.Contributions[2].Score)
	assert.Equal(t, 1.0, b.Base)

	// Noise cannot push a clamped score past 1.
	res := NewHeuristic(DefaultProfile(), FixedSource(0.999999)).Score(in, models.MissionTESS)
	assert.Equal(t, 1.0, res.Confidence)
}

func TestClassifyThresholds(t *testing.T) {
	h := NewHeuristic(DefaultProfile(), FixedSource(0.5))
	tests := []struct {
		score float64
		want  models.Status
	}{
		{1, models.StatusCandidate},
		{0.70, models.StatusCandidate},
		{0.6999, models.StatusUnknown},
		{0.40, models.StatusUnknown},
		{0.3999, models.StatusFalsePositive},
		{0, models.StatusFalsePositive},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, h.Classify(tt.score), "score %v", tt.score)
	}
}

// Every mission, a grid of inputs and several noise draws: the confidence stays
// in [0,1] and the status agrees with the thresholds applied to the noisy score.
func TestScore_PropertyGrid(t *testing.T) {
	p := DefaultProfile()
	confidences := []float64{0, 0.3, 0.5, 0.75, 1}
	snrs := []float64{0, 7, 50, 150}
	depths := []float64{0, 800, 5000, 20000}
	periods := []float64{0.5, 20, 900}
	draws := []float64{0, 0.25, 0.5, 0.75, 0.999999}
	flagSets := [][4]bool{{}, {true}, {false, true, true}, {true, true, true, true}, {false, false, false, true}}

	for _, mission := range models.Missions {
		for _, c := range confidences {
			for _, snr := range snrs {
				for _, depth := range depths {
					for _, period := range periods {
						for _, flags := range flagSets {
							in := models.PredictionInput{
								NASAConfidence:     c,
								SignalToNoise:      snr,
								TransitDepth:       depth,
								OrbitalPeriod:      period,
								TransitDuration:    3,
								PlanetRadius:       2,
								PlanetTemperature:  500,
								FlagNotTransit:     flags[0],
								FlagStellarEclipse: flags[1],
								FlagCentroidOffset: flags[2],
								FlagEphemerisMatch: flags[3],
							}
							for _, r := range draws {
								h := NewHeuristic(p, FixedSource(r))
								base := h.Evaluate(in, mission).Base
								noisy := clamp01(base + (r-0.5)*p.NoiseAmplitude)
								res := h.Score(in, mission)

								require.GreaterOrEqual(t, res.Confidence, 0.0)
								require.LessOrEqual(t, res.Confidence, 1.0)
								require.InDelta(t, noisy, res.Confidence, 0.005+eps)
								require.Equal(t, h.Classify(noisy), res.Status)
								require.Equal(t, Explanation(res.Status), res.Explanation)
								require.LessOrEqual(t, math.Abs(noisy-base), p.NoiseAmplitude/2+eps)
							}
						}
					}
				}
			}
		}
	}
}

func TestSeededSourceIsReproducible(t *testing.T) {
	a, b := NewSeededSource(42), NewSeededSource(42)
	for i := 0; i < 10; i++ {
		x := a.Float64()
		assert.Equal(t, x, b.Float64())
		assert.GreaterOrEqual(t, x, 0.0)
		assert.Less(t, x, 1.0)
	}
}
