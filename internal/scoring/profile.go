package scoring

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Alias1177/astrokit/models"
)

// Profile holds every constant of the fallback heuristic
type Profile struct {
	Weights        Weights                         `yaml:"weights"`
	SNRScale       float64                         `yaml:"snr_scale"`   // signalToNoise divisor
	DepthScale     float64                         `yaml:"depth_scale"` // transitDepth divisor, ppm
	Ranges         Ranges                          `yaml:"ranges"`
	FlagPenalty    FlagPenalty                     `yaml:"flag_penalty"`
	MissionBonus   map[models.MissionModel]float64 `yaml:"mission_bonus"`
	NoiseAmplitude float64                         `yaml:"noise_amplitude"` // full width; noise is (r-0.5)*amplitude
	Thresholds     Thresholds                      `yaml:"thresholds"`
}

// Weights of each feature group in the weighted sum
type Weights struct {
	NASAConfidence    float64 `yaml:"nasa_confidence"`
	SignalToNoise     float64 `yaml:"signal_to_noise"`
	TransitDepth      float64 `yaml:"transit_depth"`
	OrbitalPeriod     float64 `yaml:"orbital_period"`
	TransitDuration   float64 `yaml:"transit_duration"`
	PlanetRadius      float64 `yaml:"planet_radius"`
	PlanetTemperature float64 `yaml:"planet_temperature"`
	Flags             float64 `yaml:"flags"`
}

// Sum returns the total of all weights
func (w Weights) Sum() float64 {
	return w.NASAConfidence + w.SignalToNoise + w.TransitDepth + w.OrbitalPeriod +
		w.TransitDuration + w.PlanetRadius + w.PlanetTemperature + w.Flags
}

// Band scores a value Inside when strictly between Min and Max, Outside otherwise
type Band struct {
	Min     float64 `yaml:"min"`
	Max     float64 `yaml:"max"`
	Inside  float64 `yaml:"inside"`
	Outside float64 `yaml:"outside"`
}

// Score applies the band to v
func (b Band) Score(v float64) float64 {
	if v > b.Min && v < b.Max {
		return b.Inside
	}
	return b.Outside
}

// Ranges are the plausibility bands for the range-scored features
type Ranges struct {
	OrbitalPeriod     Band `yaml:"orbital_period"`
	TransitDuration   Band `yaml:"transit_duration"`
	PlanetRadius      Band `yaml:"planet_radius"`
	PlanetTemperature Band `yaml:"planet_temperature"`
}

// FlagPenalty is the per-flag penalty; a negative value rewards the flag
type FlagPenalty struct {
	NotTransit     float64 `yaml:"not_transit"`
	StellarEclipse float64 `yaml:"stellar_eclipse"`
	CentroidOffset float64 `yaml:"centroid_offset"`
	EphemerisMatch float64 `yaml:"ephemeris_match"`
}

// Thresholds split the final score into statuses
type Thresholds struct {
	Candidate float64 `yaml:"candidate"` // score >= Candidate
	Unknown   float64 `yaml:"unknown"`   // Unknown <= score < Candidate
}

// DefaultProfile returns the reference heuristic constants
func DefaultProfile() Profile {
	return Profile{
		Weights: Weights{
			NASAConfidence:    0.25,
			SignalToNoise:     0.20,
			TransitDepth:      0.15,
			OrbitalPeriod:     0.10,
			TransitDuration:   0.10,
			PlanetRadius:      0.10,
			PlanetTemperature: 0.05,
			Flags:             0.05,
		},
		SNRScale:   100,
		DepthScale: 5000,
		Ranges: Ranges{
			OrbitalPeriod:     Band{Min: 1, Max: 500, Inside: 1, Outside: 0.5},
			TransitDuration:   Band{Min: 0.5, Max: 10, Inside: 1, Outside: 0.6},
			PlanetRadius:      Band{Min: 0.5, Max: 20, Inside: 1, Outside: 0.7},
			PlanetTemperature: Band{Min: 200, Max: 2000, Inside: 1, Outside: 0.6},
		},
		FlagPenalty: FlagPenalty{
			NotTransit:     0.3,
			StellarEclipse: 0.25,
			CentroidOffset: 0.2,
			EphemerisMatch: -0.1,
		},
		MissionBonus: map[models.MissionModel]float64{
			models.MissionK2:     0.02,
			models.MissionTESS:   0.05,
			models.MissionKepler: 0.0,
		},
		NoiseAmplitude: 0.05,
		Thresholds: Thresholds{
			Candidate: 0.70,
			Unknown:   0.40,
		},
	}
}

// LoadProfile reads a YAML profile. Keys missing from the file keep their
// default values.
func LoadProfile(path string) (Profile, error) {
	p := DefaultProfile()
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("reading heuristic profile: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parsing heuristic profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return p, fmt.Errorf("heuristic profile %s: %w", path, err)
	}
	return p, nil
}

// Validate rejects profiles the heuristic cannot evaluate meaningfully
func (p Profile) Validate() error {
	if p.SNRScale <= 0 || p.DepthScale <= 0 {
		return fmt.Errorf("snr_scale and depth_scale must be > 0")
	}
	if p.NoiseAmplitude < 0 {
		return fmt.Errorf("noise_amplitude must be >= 0")
	}
	if p.Thresholds.Unknown > p.Thresholds.Candidate {
		return fmt.Errorf("thresholds.unknown (%v) exceeds thresholds.candidate (%v)", p.Thresholds.Unknown, p.Thresholds.Candidate)
	}
	if sum := p.Weights.Sum(); math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("weights must sum to 1, got %v", sum)
	}
	return nil
}
