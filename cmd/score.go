package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Alias1177/astrokit/models"
)

var (
	scoreInput = models.DefaultInput()
	scoreModel string
	scoreJSON  bool
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score one observation and append it to history",
	Example: `  astrokit score --model TESS --nasa-confidence 0.9 --snr 80 --depth 3000 \
    --period 20 --duration 3 --radius 2 --temperature 500 --ephemeris-match`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		mission, err := models.ParseMission(scoreModel)
		if err != nil {
			return err
		}

		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		rec, source, err := a.Predict(ctx, scoreInput, mission)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if scoreJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{"record": rec, "source": source})
		}
		fmt.Fprintf(out, "Model:       %s\n", rec.ModelName)
		fmt.Fprintf(out, "Status:      %s\n", rec.Result.Status)
		fmt.Fprintf(out, "Confidence:  %.2f\n", rec.Result.Confidence)
		fmt.Fprintf(out, "Source:      %s\n", source)
		fmt.Fprintf(out, "\n%s\n", rec.Result.Explanation)
		return nil
	},
}

func init() {
	f := scoreCmd.Flags()
	f.StringVar(&scoreModel, "model", string(models.MissionTESS), "mission model: K2, TESS (toi) or Kepler")
	f.Float64Var(&scoreInput.NASAConfidence, "nasa-confidence", scoreInput.NASAConfidence, "NASA disposition confidence, 0-1")
	f.Float64Var(&scoreInput.SignalToNoise, "snr", scoreInput.SignalToNoise, "signal-to-noise ratio")
	f.Float64Var(&scoreInput.TransitDepth, "depth", scoreInput.TransitDepth, "transit depth, ppm")
	f.Float64Var(&scoreInput.OrbitalPeriod, "period", scoreInput.OrbitalPeriod, "orbital period, days")
	f.Float64Var(&scoreInput.TransitDuration, "duration", scoreInput.TransitDuration, "transit duration, hours")
	f.Float64Var(&scoreInput.PlanetRadius, "radius", scoreInput.PlanetRadius, "planet radius, Earth radii")
	f.Float64Var(&scoreInput.PlanetTemperature, "temperature", scoreInput.PlanetTemperature, "equilibrium temperature, K")
	f.BoolVar(&scoreInput.FlagNotTransit, "not-transit", scoreInput.FlagNotTransit, "not-transit-like flag")
	f.BoolVar(&scoreInput.FlagStellarEclipse, "stellar-eclipse", scoreInput.FlagStellarEclipse, "stellar eclipse flag")
	f.BoolVar(&scoreInput.FlagCentroidOffset, "centroid-offset", scoreInput.FlagCentroidOffset, "centroid offset flag")
	f.BoolVar(&scoreInput.FlagEphemerisMatch, "ephemeris-match", scoreInput.FlagEphemerisMatch, "ephemeris match contamination flag")
	f.BoolVar(&scoreJSON, "json", false, "print the record as JSON")
	rootCmd.AddCommand(scoreCmd)
}
