package history

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/tealeg/xlsx/v2"

	"github.com/Alias1177/astrokit/models"
)

// Format is an export file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts csv or xlsx; an empty string means csv
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatXLSX:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// ContentType returns the MIME type for f
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// ExportColumns is the header row of every export
var ExportColumns = []string{
	"Timestamp", "Model", "Result", "Confidence",
	"NASA Confidence", "Signal/Noise", "Transit Depth", "Orbital Period",
}

// ExportFilename names an export file after the moment it was produced
func ExportFilename(f Format, now time.Time) string {
	return fmt.Sprintf("astrokit-predictions-%d.%s", now.UnixMilli(), f)
}

// Write encodes records in format f
func Write(w io.Writer, f Format, records []models.PredictionRecord) error {
	if f == FormatXLSX {
		return WriteXLSX(w, records)
	}
	return WriteCSV(w, records)
}

// WriteCSV writes the header and one row per record
func WriteCSV(w io.Writer, records []models.PredictionRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportColumns); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(exportRow(r)); err != nil {
			return fmt.Errorf("writing csv row %s: %w", r.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}

// WriteXLSX writes the same table as WriteCSV into a single-sheet workbook
func WriteXLSX(w io.Writer, records []models.PredictionRecord) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Predictions")
	if err != nil {
		return fmt.Errorf("adding sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, col := range ExportColumns {
		header.AddCell().SetString(col)
	}

	for _, r := range records {
		row := sheet.AddRow()
		row.AddCell().SetString(r.Timestamp.UTC().Format(time.RFC3339))
		row.AddCell().SetString(string(r.ModelName))
		row.AddCell().SetString(string(r.Result.Status))
		row.AddCell().SetFloat(r.Result.Confidence)
		row.AddCell().SetFloat(r.Input.NASAConfidence)
		row.AddCell().SetFloat(r.Input.SignalToNoise)
		row.AddCell().SetFloat(r.Input.TransitDepth)
		row.AddCell().SetFloat(r.Input.OrbitalPeriod)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func exportRow(r models.PredictionRecord) []string {
	return []string{
		r.Timestamp.UTC().Format(time.RFC3339),
		string(r.ModelName),
		string(r.Result.Status),
		formatFloat(r.Result.Confidence),
		formatFloat(r.Input.NASAConfidence),
		formatFloat(r.Input.SignalToNoise),
		formatFloat(r.Input.TransitDepth),
		formatFloat(r.Input.OrbitalPeriod),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
