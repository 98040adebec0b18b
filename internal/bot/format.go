package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/Alias1177/astrokit/internal/history"
	"github.com/Alias1177/astrokit/internal/scoring"
	"github.com/Alias1177/astrokit/models"
)

// historyLimit caps how many records one /history reply lists
const historyLimit = 10

var statusLabels = map[models.Status]string{
	models.StatusCandidate:     "Planetary candidate",
	models.StatusUnknown:       "Needs follow-up",
	models.StatusFalsePositive: "Likely false positive",
}

func formatResult(rec models.PredictionRecord, source scoring.Source) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", statusLabels[rec.Result.Status])
	fmt.Fprintf(&sb, "Model: %s\n", rec.ModelName)
	fmt.Fprintf(&sb, "Confidence: %.0f%%\n", rec.Result.Confidence*100)
	if source == scoring.SourceLocal {
		sb.WriteString("Scored locally (classifier unavailable)\n")
	}
	fmt.Fprintf(&sb, "\n%s", rec.Result.Explanation)
	return sb.String()
}

func formatHistory(records []models.PredictionRecord) string {
	if len(records) == 0 {
		return "No predictions yet. Use /predict to score an observation."
	}

	s := history.Summarize(records)
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d predictions: %d candidates, %d false positives, %d unknown. Mean confidence %.0f%%\n\n",
		s.Total, s.Candidates, s.FalsePositives, s.Unknown, s.MeanConfidence*100)

	for i, r := range records {
		if i == historyLimit {
			fmt.Fprintf(&sb, "...and %d more", len(records)-historyLimit)
			break
		}
		fmt.Fprintf(&sb, "%s  %-6s %-14s %.2f\n",
			r.Timestamp.UTC().Format(time.DateTime), r.ModelName, r.Result.Status, r.Result.Confidence)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatCatalog() string {
	var sb strings.Builder
	for _, info := range models.Catalog() {
		fmt.Fprintf(&sb, "%s (%s, %s)\n%s\nAccuracy %.1f%%, F1 %.2f\n\n",
			info.Name, info.RemoteID, info.YearOfOperation, info.Description, info.Accuracy, info.F1Score)
	}
	return strings.TrimRight(sb.String(), "\n")
}

const helpText = `Score exoplanet transit observations.

/predict key=value ... score an observation, e.g.
  /predict model=TESS conf=0.9 snr=80 depth=3000 period=20 duration=3 radius=2 temp=500 ephemeris=true
  Unset fields keep dashboard defaults.
/history [status] [sort] recent predictions (status: all, candidate, false_positive, unknown; sort: newest, oldest, confidence)
/export [csv|xlsx] download the history
/clear delete the history
/models mission model details`
