package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"vivienda/server/internal/dataset"
	"vivienda/server/internal/models"
)

// Sheet names of the dashboard workbook
const (
	SeriesSheet   = "serie"
	ForecastSheet = "forecast"
)

// Workbook writes an xlsx file with the enriched series and the forecast.
// Missing values are left as empty cells.
func Workbook(w io.Writer, enriched []models.EnrichedTimePoint, forecast []models.ForecastPoint) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SeriesSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(ForecastSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	if err := writeHeader(f, SeriesSheet, EnrichedHeader); err != nil {
		return err
	}
	for i, p := range enriched {
		row := []interface{}{
			dataset.FormatDate(p.Date), cellValue(p.Value), cellValue(p.VarQoQPct),
			cellValue(p.VarYoYPct), cellValue(p.MM4), cellValue(p.MM8),
		}
		if err := writeRow(f, SeriesSheet, i+2, row); err != nil {
			return err
		}
	}

	if err := writeHeader(f, ForecastSheet, ForecastHeader); err != nil {
		return err
	}
	for i, p := range forecast {
		row := []interface{}{dataset.FormatDate(p.Date), cellValue(p.YReal), p.YPred}
		if err := writeRow(f, ForecastSheet, i+2, row); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, header []string) error {
	row := make([]interface{}, len(header))
	for i, h := range header {
		row[i] = h
	}
	return writeRow(f, sheet, 1, row)
}

func writeRow(f *excelize.File, sheet string, rowNum int, row []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &row); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, rowNum, err)
	}
	return nil
}

func cellValue(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
