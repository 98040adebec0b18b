package history

import (
	"math"

	"github.com/Alias1177/astrokit/models"
)

// Summary aggregates a listing for dashboard stat cards
type Summary struct {
	Total          int     `json:"total"`
	Candidates     int     `json:"candidates"`
	FalsePositives int     `json:"falsePositives"`
	Unknown        int     `json:"unknown"`
	MeanConfidence float64 `json:"meanConfidence"` // 0 when empty
}

// Summarize counts statuses and averages confidence, rounded to two decimals
func Summarize(records []models.PredictionRecord) Summary {
	var s Summary
	var total float64
	for _, r := range records {
		s.Total++
		total += r.Result.Confidence
		switch r.Result.Status {
		case models.StatusCandidate:
			s.Candidates++
		case models.StatusFalsePositive:
			s.FalsePositives++
		default:
			s.Unknown++
		}
	}
	if s.Total > 0 {
		s.MeanConfidence = math.Round(total/float64(s.Total)*100) / 100
	}
	return s
}
