package models

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PredictionInput is one observation's feature vector, exactly as the dashboard submits it
type PredictionInput struct {
	NASAConfidence     float64 `json:"nasaConfidence"`     // 0-1
	SignalToNoise      float64 `json:"signalToNoise"`      // >= 0, displayed 0-100
	TransitDepth       float64 `json:"transitDepth"`       // ppm
	OrbitalPeriod      float64 `json:"orbitalPeriod"`      // days
	TransitDuration    float64 `json:"transitDuration"`    // hours
	PlanetRadius       float64 `json:"planetRadius"`       // Earth radii
	PlanetTemperature  float64 `json:"planetTemperature"`  // Kelvin
	FlagNotTransit     bool    `json:"flagNotTransit"`     // not transit-like
	FlagStellarEclipse bool    `json:"flagStellarEclipse"` // stellar eclipse
	FlagCentroidOffset bool    `json:"flagCentroidOffset"` // centroid offset
	FlagEphemerisMatch bool    `json:"flagEphemerisMatch"` // ephemeris match contamination
}

// DefaultInput returns the dashboard's starting observation
func DefaultInput() PredictionInput {
	return PredictionInput{
		NASAConfidence:     0.75,
		SignalToNoise:      45,
		TransitDepth:       1200,
		OrbitalPeriod:      15,
		TransitDuration:    3.5,
		PlanetRadius:       2.5,
		PlanetTemperature:  850,
		FlagEphemerisMatch: true,
	}
}

// Validate checks every numeric field against its physical domain.
// The first violation is returned. NaN and infinities are rejected for every field.
func (in PredictionInput) Validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"nasaConfidence", in.NASAConfidence},
		{"signalToNoise", in.SignalToNoise},
		{"transitDepth", in.TransitDepth},
		{"orbitalPeriod", in.OrbitalPeriod},
		{"transitDuration", in.TransitDuration},
		{"planetRadius", in.PlanetRadius},
		{"planetTemperature", in.PlanetTemperature},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%s must be a finite number, got %v", f.name, f.value)
		}
	}

	switch {
	case in.NASAConfidence < 0 || in.NASAConfidence > 1:
		return fmt.Errorf("nasaConfidence must be within [0,1], got %v", in.NASAConfidence)
	case in.SignalToNoise < 0:
		return fmt.Errorf("signalToNoise must be >= 0, got %v", in.SignalToNoise)
	case in.TransitDepth < 0:
		return fmt.Errorf("transitDepth must be >= 0, got %v", in.TransitDepth)
	case in.OrbitalPeriod <= 0:
		return fmt.Errorf("orbitalPeriod must be > 0, got %v", in.OrbitalPeriod)
	case in.TransitDuration <= 0:
		return fmt.Errorf("transitDuration must be > 0, got %v", in.TransitDuration)
	case in.PlanetRadius <= 0:
		return fmt.Errorf("planetRadius must be > 0, got %v", in.PlanetRadius)
	case in.PlanetTemperature <= 0:
		return fmt.Errorf("planetTemperature must be > 0, got %v", in.PlanetTemperature)
	}
	return nil
}

// MissionModel selects which simulated mission model scores a request
type MissionModel string

const (
	MissionK2     MissionModel = "K2"
	MissionTESS   MissionModel = "TESS"
	MissionKepler MissionModel = "Kepler"
)

// Missions lists the supported missions in display order
var Missions = []MissionModel{MissionK2, MissionTESS, MissionKepler}

// RemoteID translates the mission into the remote classifier's naming scheme
func (m MissionModel) RemoteID() string {
	switch m {
	case MissionK2:
		return "k2"
	case MissionTESS:
		return "toi"
	case MissionKepler:
		return "kepler"
	}
	return strings.ToLower(string(m))
}

// Valid reports whether m is one of the three supported missions
func (m MissionModel) Valid() bool {
	switch m {
	case MissionK2, MissionTESS, MissionKepler:
		return true
	}
	return false
}

// ParseMission accepts display names and remote ids, case-insensitively
func ParseMission(s string) (MissionModel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "k2":
		return MissionK2, nil
	case "tess", "toi":
		return MissionTESS, nil
	case "kepler":
		return MissionKepler, nil
	}
	return "", fmt.Errorf("unknown mission model %q", s)
}

// Status is the classification label attached to a result
type Status string

const (
	StatusCandidate     Status = "candidate"
	StatusFalsePositive Status = "false_positive"
	StatusUnknown       Status = "unknown"
)

// Valid reports whether s is one of the three known statuses
func (s Status) Valid() bool {
	switch s {
	case StatusCandidate, StatusFalsePositive, StatusUnknown:
		return true
	}
	return false
}

// PredictionResult is the output of a scoring request
type PredictionResult struct {
	Status      Status  `json:"status"`
	Confidence  float64 `json:"confidence"` // 0-1, two decimals
	Explanation string  `json:"explanation"`
}

// PredictionRecord is one persisted scoring request and its result.
// Records are never mutated after creation.
type PredictionRecord struct {
	ID        string           `json:"id"`
	Timestamp time.Time        `json:"timestamp"`
	ModelName MissionModel     `json:"modelName"`
	Input     PredictionInput  `json:"input"`
	Result    PredictionResult `json:"result"`
}

// NewRecord stamps a completed scoring request with a fresh id and creation time
func NewRecord(mission MissionModel, input PredictionInput, result PredictionResult, now time.Time) PredictionRecord {
	return PredictionRecord{
		ID:        uuid.New().String(),
		Timestamp: now.UTC(),
		ModelName: mission,
		Input:     input,
		Result:    result,
	}
}
