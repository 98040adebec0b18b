package bot

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Alias1177/astrokit/models"
)

// field setters keyed by every accepted spelling, lowercased
var numericFields = map[string]func(*models.PredictionInput, float64){
	"nasaconfidence":    func(in *models.PredictionInput, v float64) { in.NASAConfidence = v },
	"conf":              func(in *models.PredictionInput, v float64) { in.NASAConfidence = v },
	"signaltonoise":     func(in *models.PredictionInput, v float64) { in.SignalToNoise = v },
	"snr":               func(in *models.PredictionInput, v float64) { in.SignalToNoise = v },
	"transitdepth":      func(in *models.PredictionInput, v float64) { in.TransitDepth = v },
	"depth":             func(in *models.PredictionInput, v float64) { in.TransitDepth = v },
	"orbitalperiod":     func(in *models.PredictionInput, v float64) { in.OrbitalPeriod = v },
	"period":            func(in *models.PredictionInput, v float64) { in.OrbitalPeriod = v },
	"transitduration":   func(in *models.PredictionInput, v float64) { in.TransitDuration = v },
	"duration":          func(in *models.PredictionInput, v float64) { in.TransitDuration = v },
	"planetradius":      func(in *models.PredictionInput, v float64) { in.PlanetRadius = v },
	"radius":            func(in *models.PredictionInput, v float64) { in.PlanetRadius = v },
	"planettemperature": func(in *models.PredictionInput, v float64) { in.PlanetTemperature = v },
	"temp":              func(in *models.PredictionInput, v float64) { in.PlanetTemperature = v },
}

var flagFields = map[string]func(*models.PredictionInput, bool){
	"flagnottransit":     func(in *models.PredictionInput, v bool) { in.FlagNotTransit = v },
	"nottransit":         func(in *models.PredictionInput, v bool) { in.FlagNotTransit = v },
	"flagstellareclipse": func(in *models.PredictionInput, v bool) { in.FlagStellarEclipse = v },
	"eclipse":            func(in *models.PredictionInput, v bool) { in.FlagStellarEclipse = v },
	"flagcentroidoffset": func(in *models.PredictionInput, v bool) { in.FlagCentroidOffset = v },
	"centroid":           func(in *models.PredictionInput, v bool) { in.FlagCentroidOffset = v },
	"flagephemerismatch": func(in *models.PredictionInput, v bool) { in.FlagEphemerisMatch = v },
	"ephemeris":          func(in *models.PredictionInput, v bool) { in.FlagEphemerisMatch = v },
}

// ParsePredictArgs applies "key=value" pairs to base. A "model" key overrides
// mission. Unknown keys and unparsable values are errors.
func ParsePredictArgs(args string, base models.PredictionInput, mission models.MissionModel) (models.PredictionInput, models.MissionModel, error) {
	in := base
	for _, pair := range strings.Fields(args) {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || value == "" {
			return in, mission, fmt.Errorf("expected key=value, got %q", pair)
		}
		key = strings.ToLower(key)

		if key == "model" || key == "mission" {
			m, err := models.ParseMission(value)
			if err != nil {
				return in, mission, err
			}
			mission = m
			continue
		}
		if set, ok := numericFields[key]; ok {
			v, err := strconv.ParseFloat(value, 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				return in, mission, fmt.Errorf("%s: %q is not a number", key, value)
			}
			set(&in, v)
			continue
		}
		if set, ok := flagFields[key]; ok {
			v, err := strconv.ParseBool(value)
			if err != nil {
				return in, mission, fmt.Errorf("%s: %q is not a boolean", key, value)
			}
			set(&in, v)
			continue
		}
		return in, mission, fmt.Errorf("unknown parameter %q", key)
	}
	return in, mission, nil
}
