// Package export writes the downloadable dashboard artifacts.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"vivienda/server/internal/dataset"
	"vivienda/server/internal/models"
)

// Column headers of the exported tables
var (
	ForecastHeader = []string{dataset.ColDate, dataset.ColYReal, dataset.ColYPred}
	EnrichedHeader = []string{dataset.ColDate, dataset.ColValue, "var_qoq_pct", "var_yoy_pct", "mm_4", "mm_8"}
)

// ForecastCSV writes the forecast table unchanged.
func ForecastCSV(w io.Writer, points []models.ForecastPoint) error {
	records := make([][]string, len(points))
	for i, p := range points {
		records[i] = []string{dataset.FormatDate(p.Date), formatOptional(p.YReal), formatFloat(p.YPred)}
	}
	return writeCSV(w, ForecastHeader, records)
}

// EnrichedCSV writes the series with its four derived columns.
func EnrichedCSV(w io.Writer, points []models.EnrichedTimePoint) error {
	return writeCSV(w, EnrichedHeader, enrichedRecords(points))
}

// RegionsCSV writes lookup records with the source column order.
func RegionsCSV(w io.Writer, records []models.RegionRecord) error {
	out := make([][]string, len(records))
	for i, r := range records {
		out[i] = regionRecord(r)
	}
	return writeCSV(w, dataset.RegionColumns, out)
}

func writeCSV(w io.Writer, header []string, records [][]string) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, record := range records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func enrichedRecords(points []models.EnrichedTimePoint) [][]string {
	records := make([][]string, len(points))
	for i, p := range points {
		records[i] = []string{
			dataset.FormatDate(p.Date),
			formatOptional(p.Value),
			formatOptional(p.VarQoQPct),
			formatOptional(p.VarYoYPct),
			formatOptional(p.MM4),
			formatOptional(p.MM8),
		}
	}
	return records
}

func regionRecord(r models.RegionRecord) []string {
	return []string{r.RegionCode, r.RegionName, r.CommuneCode, r.CommuneName, r.ProvinceCode, r.ProvinceName}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatOptional renders nil as an empty cell.
func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
