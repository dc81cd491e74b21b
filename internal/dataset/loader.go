// Package dataset loads the housing series, its forecast and the commune
// lookup table, and keeps the per-process session built from them.
package dataset

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"vivienda/server/internal/models"
)

// Source columns
const (
	ColDate  = "date"
	ColValue = "value"
	ColYReal = "y_real"
	ColYPred = "y_pred"

	ColRegionCode   = "COD_REG"
	ColRegionName   = "NOM_REG"
	ColCommuneCode  = "COD_COM"
	ColCommuneName  = "NOM_COM"
	ColProvinceCode = "COD_PROV"
	ColProvinceName = "NOM_PROV"
)

// RegionColumns is the lookup table header in source order.
var RegionColumns = []string{
	ColRegionCode, ColRegionName, ColCommuneCode, ColCommuneName, ColProvinceCode, ColProvinceName,
}

// Dataset holds the three loaded tables. It is never mutated after load.
type Dataset struct {
	Series   []models.TimePoint
	Forecast []models.ForecastPoint
	Regions  []models.RegionRecord
}

// LoadSeries reads the historical series (date, value).
func LoadSeries(path string) ([]models.TimePoint, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	if err := t.require(ColDate, ColValue); err != nil {
		return nil, err
	}

	points := make([]models.TimePoint, len(t.rows))
	seen := make(map[time.Time]int, len(t.rows))
	for i := range t.rows {
		date, err := t.date(i)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[date]; dup {
			return nil, fmt.Errorf("%w: %s: lines %d and %d share date %s",
				models.ErrDataUnavailable, path, t.line(prev), t.line(i), FormatDate(date))
		}
		seen[date] = i
		points[i] = models.TimePoint{Date: date, Value: ParseValue(t.get(i, ColValue))}
	}
	return points, nil
}

// LoadForecast reads the forecast (date, y_real, y_pred). y_pred is required.
func LoadForecast(path string) ([]models.ForecastPoint, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	if err := t.require(ColDate, ColYReal, ColYPred); err != nil {
		return nil, err
	}

	points := make([]models.ForecastPoint, len(t.rows))
	for i := range t.rows {
		date, err := t.date(i)
		if err != nil {
			return nil, err
		}
		raw := strings.TrimSpace(t.get(i, ColYPred))
		pred, err := strconv.ParseFloat(raw, 64)
		if err != nil || !IsFinite(pred) {
			return nil, fmt.Errorf("%w: %s: line %d: invalid %s %q",
				models.ErrDataUnavailable, path, t.line(i), ColYPred, raw)
		}
		points[i] = models.ForecastPoint{
			Date:  date,
			YReal: ParseValue(t.get(i, ColYReal)),
			YPred: pred,
		}
	}
	return points, nil
}

// LoadRegions reads the lookup table. Every cell is kept as text.
func LoadRegions(path string) ([]models.RegionRecord, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	if err := t.require(RegionColumns...); err != nil {
		return nil, err
	}

	records := make([]models.RegionRecord, len(t.rows))
	for i := range t.rows {
		records[i] = models.RegionRecord{
			RegionCode:   t.get(i, ColRegionCode),
			RegionName:   t.get(i, ColRegionName),
			ProvinceCode: t.get(i, ColProvinceCode),
			ProvinceName: t.get(i, ColProvinceName),
			CommuneCode:  t.get(i, ColCommuneCode),
			CommuneName:  t.get(i, ColCommuneName),
		}
	}
	return records, nil
}

// LoadFiles reads the three tables from files.
func LoadFiles(seriesPath, forecastPath, communesPath string) (*Dataset, error) {
	s, err := LoadSeries(seriesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load series: %w", err)
	}
	f, err := LoadForecast(forecastPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load forecast: %w", err)
	}
	r, err := LoadRegions(communesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load communes: %w", err)
	}
	return &Dataset{Series: s, Forecast: f, Regions: r}, nil
}
