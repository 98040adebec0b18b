package history

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Alias1177/astrokit/models"
)

// StatusFilter narrows a history listing to one status, or passes everything
type StatusFilter string

const (
	FilterAll           StatusFilter = "all"
	FilterCandidate     StatusFilter = StatusFilter(models.StatusCandidate)
	FilterFalsePositive StatusFilter = StatusFilter(models.StatusFalsePositive)
	FilterUnknown       StatusFilter = StatusFilter(models.StatusUnknown)
)

// ParseStatusFilter accepts the filter names; an empty string means all
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch f := StatusFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterCandidate, FilterFalsePositive, FilterUnknown:
		return f, nil
	}
	return "", fmt.Errorf("unknown status filter %q", s)
}

// SortOrder is the ordering of a history listing
type SortOrder string

const (
	SortNewest     SortOrder = "newest"
	SortOldest     SortOrder = "oldest"
	SortConfidence SortOrder = "confidence"
)

// ParseSortOrder accepts the order names; an empty string means newest
func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case "":
		return SortNewest, nil
	case SortNewest, SortOldest, SortConfidence:
		return o, nil
	}
	return "", fmt.Errorf("unknown sort order %q", s)
}

// Filter returns the records matching f. The input is not modified.
func Filter(records []models.PredictionRecord, f StatusFilter) []models.PredictionRecord {
	out := make([]models.PredictionRecord, 0, len(records))
	for _, r := range records {
		if f == FilterAll || f == "" || StatusFilter(r.Result.Status) == f {
			out = append(out, r)
		}
	}
	return out
}

// Sort returns a sorted copy of records. Ties keep their original order.
func Sort(records []models.PredictionRecord, order SortOrder) []models.PredictionRecord {
	out := slices.Clone(records)
	if out == nil {
		out = []models.PredictionRecord{}
	}

	switch order {
	case SortOldest:
		slices.SortStableFunc(out, func(a, b models.PredictionRecord) int {
			return a.Timestamp.Compare(b.Timestamp)
		})
	case SortConfidence:
		slices.SortStableFunc(out, func(a, b models.PredictionRecord) int {
			switch {
			case a.Result.Confidence > b.Result.Confidence:
				return -1
			case a.Result.Confidence < b.Result.Confidence:
				return 1
			}
			return 0
		})
	default:
		slices.SortStableFunc(out, func(a, b models.PredictionRecord) int {
			return b.Timestamp.Compare(a.Timestamp)
		})
	}
	return out
}

// View filters then sorts
func View(records []models.PredictionRecord, f StatusFilter, order SortOrder) []models.PredictionRecord {
	return Sort(Filter(records, f), order)
}
